package usd

import (
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/billy"
)

// MountPrefix is the path under which the removable volume is mounted.
const MountPrefix = "/usd/"

// Native open modes used by Volume.
const (
	modeCreate = "wb"
	modeOpen   = "rb"
)

// Volume resolves caller paths under a mount prefix and opens them through a
// native stream layer.
//
// Thread Safety: a Volume is immutable and safe for concurrent use as long as
// its native layer is. Files it returns are not.
type Volume struct {
	native stdio.Native
	prefix string
	logger *slog.Logger
}

// volumeOptions holds configuration options for a Volume.
type volumeOptions struct {
	prefix string
	logger *slog.Logger
}

// Option is a functional option for configuring a Volume.
type Option func(*volumeOptions)

// WithPrefix overrides the mount prefix. The prefix is joined to caller paths
// by plain concatenation, so it normally ends with a slash.
func WithPrefix(prefix string) Option {
	return func(opts *volumeOptions) {
		opts.prefix = prefix
	}
}

// WithLogger configures the volume and its files with a logger.
// If logger is nil, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *volumeOptions) {
		opts.logger = logger
	}
}

// NewVolume creates a Volume over native.
func NewVolume(native stdio.Native, opts ...Option) *Volume {
	options := &volumeOptions{
		prefix: MountPrefix,
		logger: nil, // No default logger
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Volume{
		native: native,
		prefix: options.prefix,
		logger: options.logger,
	}
}

// Create creates or truncates the file at path under the mount prefix and
// opens it write-only. It returns an error matching ErrNotOpened if the native
// layer cannot open it.
func (v *Volume) Create(path string) (*File, error) {
	return v.open(path, modeCreate)
}

// Open opens the existing file at path under the mount prefix read-only.
// It returns an error matching ErrNotOpened if the native layer cannot open it.
func (v *Volume) Open(path string) (*File, error) {
	return v.open(path, modeOpen)
}

// Path returns the native path for a caller path. No validation is performed.
func (v *Volume) Path(path string) string {
	return v.prefix + path
}

// Prefix returns the mount prefix.
func (v *Volume) Prefix() string {
	return v.prefix
}

// Native returns the native layer, for primitives File does not cover
// (Fflush, Ferror, Feof) applied to File.UnsafeHandle.
//
//nolint:ireturn // the native layer is an interface by design.
func (v *Volume) Native() stdio.Native {
	return v.native
}

func (v *Volume) open(path, mode string) (*File, error) {
	full := v.Path(path)

	raw := v.native.Fopen(cstr.New(full), cstr.New(mode))
	if raw.IsNull() {
		if v.logger != nil {
			v.logger.Debug("usd: open failed", "path", full, "mode", mode)
		}
		return nil, ErrNotOpened.WithContext("path", full).WithContext("mode", mode)
	}

	f := &File{
		h:      &handle{native: v.native, raw: raw},
		path:   full,
		logger: v.logger,
	}
	f.cleanup = runtime.AddCleanup(f, releaseLeaked(full, v.logger), f.h)
	return f, nil
}

var defaultVolume atomic.Pointer[Volume]

// Default returns the process-wide volume used by Create and Open.
// Unless replaced with SetDefault, it addresses the OS filesystem at MountPrefix.
func Default() *Volume {
	if v := defaultVolume.Load(); v != nil {
		return v
	}
	v := NewVolume(billy.NewHostFS().Native())
	if defaultVolume.CompareAndSwap(nil, v) {
		return v
	}
	return defaultVolume.Load()
}

// SetDefault replaces the volume used by Create and Open.
func SetDefault(v *Volume) {
	defaultVolume.Store(v)
}

// Create creates path on the default volume. See Volume.Create.
func Create(path string) (*File, error) {
	return Default().Create(path)
}

// Open opens path on the default volume. See Volume.Open.
func Open(path string) (*File, error) {
	return Default().Open(path)
}
