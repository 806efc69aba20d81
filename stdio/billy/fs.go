// Package billy provides stdio stream backends built on go-billy filesystems.
//
// The in-memory backend is the reference volume used by tests; the OS backends
// address a real mount point. Like the FAT driver of a removable card, creating
// a file fails when its parent directory does not exist, unless the backend is
// built WithAutoCreateParents.
package billy

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// ErrNotDirectory is returned when the parent of a created file is not a directory.
var ErrNotDirectory = errors.New(errors.CodeInvalidInput, "billy: parent is not a directory")

// FS opens stdio streams on a go-billy filesystem.
type FS struct {
	fs            billy.Filesystem
	requireParent bool
}

// Option configures an FS.
type Option func(*FS)

// WithAutoCreateParents lets Create succeed under missing directories,
// which go-billy then creates implicitly.
func WithAutoCreateParents() Option {
	return func(b *FS) {
		b.requireParent = false
	}
}

// OpenStream implements stdio.Opener.
//
//nolint:ireturn // stdio.Opener returns the stream interface.
func (b *FS) OpenStream(name string, mode stdio.Mode) (stdio.Stream, error) {
	if mode.Create && b.requireParent {
		if err := b.checkParent(name); err != nil {
			return nil, err
		}
	}

	f, err := b.fs.OpenFile(name, mode.Flag(), 0o644)
	if err != nil {
		return nil, fmt.Errorf("billy: openfile %q mode=%s: %w", name, mode, err)
	}
	return &File{file: f}, nil
}

func (b *FS) checkParent(name string) error {
	dir := path.Dir(filepath.ToSlash(name))
	if dir == "." || dir == "/" {
		return nil
	}

	info, err := b.fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("billy: create %q: %w", name, err)
	}
	if !info.IsDir() {
		return ErrNotDirectory.WithContext("path", dir)
	}
	return nil
}

// Native returns a stdio.Native serving streams from this filesystem.
func (b *FS) Native(opts ...stdio.Option) *stdio.Table {
	return stdio.NewTable(b, opts...)
}

// Exists reports whether path exists.
func (b *FS) Exists(path string) (bool, error) {
	_, err := b.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("billy: stat %q: %w", path, err)
	}
}

// MkdirAll creates path and any missing parents, typically the mount point.
func (b *FS) MkdirAll(path string, perm os.FileMode) error {
	if err := b.fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("billy: mkdirall %q: %w", path, err)
	}
	return nil
}

// ReadFile reads the whole file at path, bypassing the stream layer.
func (b *FS) ReadFile(path string) ([]byte, error) {
	bts, err := util.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("billy: readfile %q: %w", path, err)
	}
	return bts, nil
}

// WriteFile writes data to path, bypassing the stream layer.
func (b *FS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := util.WriteFile(b.fs, filename, data, perm); err != nil {
		return fmt.Errorf("billy: writefile %q: %w", filename, err)
	}
	return nil
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // returning interface here is intentional to expose the adapter target.
func (b *FS) Raw() billy.Filesystem {
	return b.fs
}

// NewFS creates an FS using the given go-billy filesystem.
func NewFS(fsys billy.Filesystem, opts ...Option) *FS {
	b := &FS{
		fs:            fsys,
		requireParent: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// hostFS addresses the host filesystem from "/", so a mount prefix such as
// /usd/ resolves to the real mount point.
type hostFS struct {
	osfs.ChrootOS
}

//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func (h *hostFS) Chroot(dir string) (billy.Filesystem, error) {
	return osfs.New(dir), nil
}

func (h *hostFS) Root() string {
	return "/"
}

// NewHostFS creates an FS over the host filesystem. Native paths are used as
// given, so "/usd/log.txt" is the file at that absolute path.
func NewHostFS(opts ...Option) *FS {
	return NewFS(&hostFS{}, opts...)
}

// NewInMemoryFS creates an FS backed by an empty in-memory filesystem.
func NewInMemoryFS(opts ...Option) *FS {
	return NewFS(memfs.New(), opts...)
}

// NewOSFS creates an FS rooted at the given OS directory.
func NewOSFS(root string, opts ...Option) *FS {
	return NewFS(osfs.New(root), opts...)
}
