// Package stdio describes the native buffered-stream primitives the usd file
// handles are built on, and provides Table, an emulation of those primitives
// over any seekable stream source.
//
// The surface deliberately mirrors C stdio: opening yields a Handle that is
// Null on failure, positions and lengths are signed, and status codes are
// plain integers where a negative value (EOF) signals an error. Callers that
// want Go errors should use the usd package instead of this one.
//
// Implementations of Native must be safe for use by multiple goroutines as
// long as each Handle is used by at most one goroutine at a time.
package stdio

import (
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
)

// Handle is an opaque reference to an open stream. The zero value is Null.
type Handle uintptr

// Null is the handle returned by a failed open.
const Null Handle = 0

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool {
	return h == Null
}

// EOF is the status returned by primitives that fail.
const EOF = -1

// Whence selects the origin of a seek.
type Whence int

// Seek origins, numerically identical to io.SeekStart, io.SeekCurrent and io.SeekEnd.
const (
	SeekSet Whence = io.SeekStart
	SeekCur Whence = io.SeekCurrent
	SeekEnd Whence = io.SeekEnd
)

// Native is the primitive stream surface consumed by usd.File.
type Native interface {
	// Fopen opens path with a C mode string such as "rb" or "wb".
	// It returns Null on any failure.
	Fopen(path, mode cstr.CString) Handle

	// Fseek moves the stream position. It returns 0 on success and EOF on failure.
	Fseek(h Handle, offset int64, whence Whence) int

	// Ftell returns the current position, or a negative value on failure.
	Ftell(h Handle) int64

	// Fread reads up to count items of size bytes into buf and returns the
	// number of complete items read.
	Fread(h Handle, buf []byte, size, count int) int

	// Fprintf formats args according to format and writes the result.
	// It returns the number of bytes written, or a negative value on failure.
	Fprintf(h Handle, format cstr.CString, args ...any) int

	// Fputs writes s without interpretation. It returns a non-negative value
	// on success and EOF on failure.
	Fputs(h Handle, s cstr.CString) int

	// Fwrite writes count items of size bytes from buf and returns the number
	// of complete items written.
	Fwrite(h Handle, buf []byte, size, count int) int

	// Fflush commits buffered data. It returns 0 on success and EOF on failure.
	Fflush(h Handle) int

	// Ferror reports whether the error indicator of h is set.
	Ferror(h Handle) bool

	// Feof reports whether the end-of-file indicator of h is set.
	Feof(h Handle) bool

	// Fclose releases h. It returns 0 on success and EOF on failure.
	// A handle must not be used after Fclose, whatever its result.
	Fclose(h Handle) int
}

// Stream is an open file as seen by Table.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// Syncer is implemented by streams that can commit buffered data.
type Syncer interface {
	Sync() error
}

// Opener opens streams for Table. Backends implement it.
type Opener interface {
	OpenStream(name string, mode Mode) (Stream, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(name string, mode Mode) (Stream, error)

// OpenStream implements Opener.
func (f OpenerFunc) OpenStream(name string, mode Mode) (Stream, error) {
	return f(name, mode)
}
