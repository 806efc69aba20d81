package stdiotest

import (
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// Primitive names reported by Recorder.
const (
	CallFopen   = "fopen"
	CallFseek   = "fseek"
	CallFtell   = "ftell"
	CallFread   = "fread"
	CallFprintf = "fprintf"
	CallFputs   = "fputs"
	CallFwrite  = "fwrite"
	CallFflush  = "fflush"
	CallFerror  = "ferror"
	CallFeof    = "feof"
	CallFclose  = "fclose"
)

// Recorder wraps a stdio.Native and counts every primitive call, per handle
// for Fclose. Forced results let tests drive the failure paths of callers.
//
// Thread Safety: Recorder is safe for concurrent use.
type Recorder struct {
	native stdio.Native

	mu     sync.Mutex
	calls  map[string]int
	closes map[stdio.Handle]int

	// FtellResult, when non-nil, replaces the result of Ftell.
	FtellResult *int64
	// FcloseResult, when non-nil, replaces the result of Fclose.
	// The wrapped Fclose is still called.
	FcloseResult *int
	// FwriteLimit, when non-negative, caps the items passed to Fwrite.
	FwriteLimit int
}

// NewRecorder wraps native.
func NewRecorder(native stdio.Native) *Recorder {
	return &Recorder{
		native:      native,
		calls:       make(map[string]int),
		closes:      make(map[stdio.Handle]int),
		FwriteLimit: -1,
	}
}

// Calls returns how many times the named primitive was called.
func (r *Recorder) Calls(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

// Closes returns how many times Fclose was called with h.
func (r *Recorder) Closes(h stdio.Handle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closes[h]
}

func (r *Recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[name]++
}

// Fopen implements stdio.Native.
func (r *Recorder) Fopen(path, mode cstr.CString) stdio.Handle {
	r.record(CallFopen)
	return r.native.Fopen(path, mode)
}

// Fseek implements stdio.Native.
func (r *Recorder) Fseek(h stdio.Handle, offset int64, whence stdio.Whence) int {
	r.record(CallFseek)
	return r.native.Fseek(h, offset, whence)
}

// Ftell implements stdio.Native.
func (r *Recorder) Ftell(h stdio.Handle) int64 {
	r.record(CallFtell)
	pos := r.native.Ftell(h)
	if r.FtellResult != nil {
		return *r.FtellResult
	}
	return pos
}

// Fread implements stdio.Native.
func (r *Recorder) Fread(h stdio.Handle, buf []byte, size, count int) int {
	r.record(CallFread)
	return r.native.Fread(h, buf, size, count)
}

// Fprintf implements stdio.Native.
func (r *Recorder) Fprintf(h stdio.Handle, format cstr.CString, args ...any) int {
	r.record(CallFprintf)
	return r.native.Fprintf(h, format, args...)
}

// Fputs implements stdio.Native.
func (r *Recorder) Fputs(h stdio.Handle, s cstr.CString) int {
	r.record(CallFputs)
	return r.native.Fputs(h, s)
}

// Fwrite implements stdio.Native.
func (r *Recorder) Fwrite(h stdio.Handle, buf []byte, size, count int) int {
	r.record(CallFwrite)
	if r.FwriteLimit >= 0 && count > r.FwriteLimit {
		count = r.FwriteLimit
	}
	return r.native.Fwrite(h, buf, size, count)
}

// Fflush implements stdio.Native.
func (r *Recorder) Fflush(h stdio.Handle) int {
	r.record(CallFflush)
	return r.native.Fflush(h)
}

// Ferror implements stdio.Native.
func (r *Recorder) Ferror(h stdio.Handle) bool {
	r.record(CallFerror)
	return r.native.Ferror(h)
}

// Feof implements stdio.Native.
func (r *Recorder) Feof(h stdio.Handle) bool {
	r.record(CallFeof)
	return r.native.Feof(h)
}

// Fclose implements stdio.Native.
func (r *Recorder) Fclose(h stdio.Handle) int {
	r.mu.Lock()
	r.calls[CallFclose]++
	r.closes[h]++
	r.mu.Unlock()

	rc := r.native.Fclose(h)
	if r.FcloseResult != nil {
		return *r.FcloseResult
	}
	return rc
}

var _ stdio.Native = (*Recorder)(nil)
