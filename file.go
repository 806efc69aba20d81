package usd

import (
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// handle is the native resource owned by a File. It is kept apart from File
// so that the GC cleanup of a File can release it without reaching the File.
type handle struct {
	native   stdio.Native
	raw      stdio.Handle
	released atomic.Bool
}

// claim marks the handle released. Only the first caller gets true, and only
// that caller may call Fclose.
func (h *handle) claim() bool {
	return h.released.CompareAndSwap(false, true)
}

// releaseLeaked returns the cleanup run for a File that became unreachable
// without Finish, ReadFile or Close.
func releaseLeaked(path string, logger *slog.Logger) func(*handle) {
	return func(h *handle) {
		if !h.claim() {
			return
		}
		rc := h.native.Fclose(h.raw)
		if logger != nil {
			logger.Warn("usd: released leaked file handle", "path", path, "status", rc)
		}
	}
}

// File is a handle to one open file on a Volume.
//
// A File must not be used from multiple goroutines at once. ReadFile and
// Finish consume it; any later call returns an error wrapping fs.ErrClosed.
type File struct {
	h       *handle
	path    string
	logger  *slog.Logger
	cleanup runtime.Cleanup
}

// Path returns the native path the file was opened with, prefix included.
func (f *File) Path() string {
	return f.path
}

// ReadFile reads the whole file and releases the handle.
//
// The length is measured by seeking to the end before a single bulk read.
// If the file changes between the two steps, the returned buffer keeps the
// measured length and its tail may hold zero bytes; this is not reported.
// If the native layer reports a negative length, the handle is still released
// and an error matching ErrLength is returned.
func (f *File) ReadFile() ([]byte, error) {
	if !f.release() {
		return nil, f.closedError("read")
	}
	n, raw := f.h.native, f.h.raw
	defer n.Fclose(raw)

	n.Fseek(raw, 0, stdio.SeekEnd)
	size := n.Ftell(raw)
	n.Fseek(raw, 0, stdio.SeekSet)

	if size < 0 {
		if f.logger != nil {
			f.logger.Debug("usd: negative file length", "path", f.path, "length", size)
		}
		return nil, ErrLength.WithContext("path", f.path).WithContext("length", size)
	}

	buf := make([]byte, size)
	n.Fread(raw, buf, 1, len(buf))
	return buf, nil
}

// WriteStr writes s as literal content and returns the native status
// unchanged: non-negative on success, negative on failure. The error is
// non-nil only if f was already released.
func (f *File) WriteStr(s string) (int, error) {
	if f.h.released.Load() {
		return stdio.EOF, f.closedError("write")
	}
	rc := f.h.native.Fputs(f.h.raw, cstr.New(s))
	runtime.KeepAlive(f)
	return rc, nil
}

// WriteFormatted writes s through the native formatted-write primitive with s
// as the format and no arguments, and returns the native status unchanged.
//
// Format verbs in s are interpreted rather than written literally: "100%%" is
// stored as "100%". It exists for compatibility with content produced that
// way; use WriteStr for arbitrary text.
func (f *File) WriteFormatted(s string) (int, error) {
	if f.h.released.Load() {
		return stdio.EOF, f.closedError("write")
	}
	rc := f.h.native.Fprintf(f.h.raw, cstr.New(s))
	runtime.KeepAlive(f)
	return rc, nil
}

// Write writes p with a single bulk write and returns the number of bytes the
// native layer accepted. A short write returns io.ErrShortWrite.
func (f *File) Write(p []byte) (int, error) {
	if f.h.released.Load() {
		return 0, f.closedError("write")
	}
	if len(p) == 0 {
		return 0, nil
	}
	n := f.h.native.Fwrite(f.h.raw, p, 1, len(p))
	runtime.KeepAlive(f)
	if n < len(p) {
		return n, &fs.PathError{Op: "write", Path: f.path, Err: io.ErrShortWrite}
	}
	return n, nil
}

// UnsafeHandle returns the raw native handle without any check and without
// transferring ownership. The caller must not close it nor use it after f is
// released.
func (f *File) UnsafeHandle() stdio.Handle {
	return f.h.raw
}

// Finish releases the handle and returns the native close status.
// Calling Finish on a released File returns stdio.EOF and an error.
func (f *File) Finish() (int, error) {
	if !f.release() {
		return stdio.EOF, f.closedError("close")
	}
	return f.h.native.Fclose(f.h.raw), nil
}

// Close releases the handle if it is still held and discards the native
// status. It is a no-op on a released File, so it is safe to defer
// alongside Finish or ReadFile.
func (f *File) Close() error {
	if f.release() {
		_ = f.h.native.Fclose(f.h.raw)
	}
	return nil
}

// release claims the handle and stops the GC cleanup.
func (f *File) release() bool {
	if !f.h.claim() {
		return false
	}
	f.cleanup.Stop()
	return true
}

func (f *File) closedError(op string) error {
	return &fs.PathError{Op: op, Path: f.path, Err: ErrClosed}
}

var (
	_ io.Writer = (*File)(nil)
	_ io.Closer = (*File)(nil)
)
