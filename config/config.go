// Package config loads the settings that select and build a usd.Volume.
//
// Settings are read from a TOML file and the environment, in the priority
// defaults < file < environment:
//
//	[volume]
//	prefix  = "/usd/"
//	backend = "os"        # os | memory | minio
//	root    = "/"
//
//	[minio]
//	endpoint   = "localhost:9000"
//	bucket     = "usd"
//	access_key = "minioadmin"
//	secret_key = "minioadmin"
//	use_ssl    = false
//	key_prefix = ""
//
//	[log]
//	level = "info"
//
// # Basic Usage
//
//	cfg, err := config.NewLoader("usd.toml").Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	vol, err := cfg.NewVolume(ctx, cfg.NewLogger(os.Stderr))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := vol.Open("log.txt")
package config

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/usd"
	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/billy"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/minio"
)

// Volume backends.
const (
	BackendOS     = "os"
	BackendMemory = "memory"
	BackendMinio  = "minio"
)

// Config is the fully resolved configuration.
type Config struct {
	Volume VolumeConfig
	Minio  MinioConfig
	Log    LogConfig
}

// VolumeConfig selects the backend and the mount prefix.
type VolumeConfig struct {
	Prefix  string
	Backend string
	// Root is the OS directory the os backend resolves native paths against.
	Root string
}

// MinioConfig holds the connection settings of the minio backend.
type MinioConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	KeyPrefix string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// DefaultConfig returns the configuration used when nothing is set: the OS
// filesystem with the card mounted at /usd/.
func DefaultConfig() *Config {
	return &Config{
		Volume: VolumeConfig{
			Prefix:  usd.MountPrefix,
			Backend: BackendOS,
			Root:    "/",
		},
		Minio: MinioConfig{
			Bucket: "usd",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LogLevel returns the configured level, or slog.LevelInfo if it does not parse.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel()}))
}

// NewVolume builds the configured volume. For the minio backend the bucket is
// created if missing and ctx bounds every request of the volume.
// If logger is nil, logging is disabled.
func (c *Config) NewVolume(ctx context.Context, logger *slog.Logger) (*usd.Volume, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	native, err := c.newNative(ctx, stdio.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return usd.NewVolume(native,
		usd.WithPrefix(c.Volume.Prefix),
		usd.WithLogger(logger),
	), nil
}

//nolint:ireturn // every backend is served through the native interface.
func (c *Config) newNative(ctx context.Context, opts ...stdio.Option) (stdio.Native, error) {
	switch strings.ToLower(c.Volume.Backend) {
	case BackendOS:
		if c.Volume.Root == "" || c.Volume.Root == "/" {
			return billy.NewHostFS().Native(opts...), nil
		}
		return billy.NewOSFS(c.Volume.Root).Native(opts...), nil

	case BackendMemory:
		card := billy.NewInMemoryFS()
		if err := card.MkdirAll(c.Volume.Prefix, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to mount in-memory volume")
		}
		return card.Native(opts...), nil

	case BackendMinio:
		client, err := minio.NewClient(c.Minio.Endpoint, c.Minio.AccessKey, c.Minio.SecretKey, c.Minio.UseSSL)
		if err != nil {
			return nil, err
		}
		m := minio.New(client, c.Minio.Bucket,
			minio.WithContext(ctx),
			minio.WithKeyPrefix(c.Minio.KeyPrefix),
		)
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeUnavailable, "failed to prepare minio bucket",
				map[string]interface{}{
					"endpoint": c.Minio.Endpoint,
					"bucket":   c.Minio.Bucket,
				})
		}
		return m.Native(opts...), nil
	}

	return nil, errors.New(errors.CodeInvalidConfig, "unknown backend: "+c.Volume.Backend)
}
