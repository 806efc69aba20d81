package stdio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
)

// Table implements Native on top of an Opener. Each open stream gets a
// handle from a monotonically increasing counter; handles are never reused.
//
// Thread Safety: the handle table is guarded by a mutex, so distinct handles
// may be used from different goroutines. A single handle must not be.
type Table struct {
	opener Opener
	logger *slog.Logger

	mu      sync.Mutex
	next    Handle
	streams map[Handle]*stream
}

// stream is one entry of the table, carrying the C indicators.
type stream struct {
	s    Stream
	name string
	mode Mode
	eof  bool
	err  bool
}

// NewTable creates a Table that opens streams through opener.
func NewTable(opener Opener, opts ...Option) *Table {
	options := defaultOptions()
	applyOptions(options, opts)

	return &Table{
		opener:  opener,
		logger:  options.logger,
		streams: make(map[Handle]*stream),
	}
}

// Open returns the number of handles currently open.
func (t *Table) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.streams)
}

// Fopen implements Native.Fopen.
func (t *Table) Fopen(path, mode cstr.CString) Handle {
	name := path.String()

	m, err := ParseMode(mode.String())
	if err != nil {
		t.debug("fopen rejected mode", "path", name, "mode", mode.String(), "error", err)
		return Null
	}

	s, err := t.opener.OpenStream(name, m)
	if err != nil {
		t.debug("fopen failed", "path", name, "mode", m.String(), "error", err)
		return Null
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := t.next
	t.streams[h] = &stream{s: s, name: name, mode: m}
	return h
}

// Fseek implements Native.Fseek. A successful seek clears the EOF indicator.
func (t *Table) Fseek(h Handle, offset int64, whence Whence) int {
	st := t.lookup(h)
	if st == nil {
		return EOF
	}
	if _, err := st.s.Seek(offset, int(whence)); err != nil {
		t.debug("fseek failed", "path", st.name, "offset", offset, "whence", int(whence), "error", err)
		return EOF
	}
	st.eof = false
	return 0
}

// Ftell implements Native.Ftell.
func (t *Table) Ftell(h Handle) int64 {
	st := t.lookup(h)
	if st == nil {
		return EOF
	}
	pos, err := st.s.Seek(0, io.SeekCurrent)
	if err != nil {
		t.debug("ftell failed", "path", st.name, "error", err)
		return EOF
	}
	return pos
}

// Fread implements Native.Fread. The request is clamped to the capacity of buf.
func (t *Table) Fread(h Handle, buf []byte, size, count int) int {
	st := t.lookup(h)
	if st == nil || size <= 0 || count <= 0 {
		return 0
	}
	if !st.mode.Read {
		st.err = true
		return 0
	}

	if limit := len(buf) / size; count > limit {
		count = limit
	}
	n, err := io.ReadFull(st.s, buf[:size*count])
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		st.eof = true
	default:
		st.err = true
		t.debug("fread failed", "path", st.name, "error", err)
	}
	return n / size
}

// Fprintf implements Native.Fprintf. The format is interpreted by the fmt
// package, so verbs without a matching argument are rendered as fmt reports them.
func (t *Table) Fprintf(h Handle, format cstr.CString, args ...any) int {
	st := t.lookup(h)
	if st == nil {
		return EOF
	}
	n, ok := t.write(st, []byte(fmt.Sprintf(format.String(), args...)))
	if !ok {
		return EOF
	}
	return n
}

// Fputs implements Native.Fputs. It returns the number of bytes written.
func (t *Table) Fputs(h Handle, s cstr.CString) int {
	st := t.lookup(h)
	if st == nil {
		return EOF
	}
	n, ok := t.write(st, s[:s.Len()])
	if !ok {
		return EOF
	}
	return n
}

// Fwrite implements Native.Fwrite. The request is clamped to the length of buf.
func (t *Table) Fwrite(h Handle, buf []byte, size, count int) int {
	st := t.lookup(h)
	if st == nil || size <= 0 || count <= 0 {
		return 0
	}
	if limit := len(buf) / size; count > limit {
		count = limit
	}
	n, _ := t.write(st, buf[:size*count])
	return n / size
}

// Fflush implements Native.Fflush. Streams that are not Syncers flush trivially.
func (t *Table) Fflush(h Handle) int {
	st := t.lookup(h)
	if st == nil {
		return EOF
	}
	syncer, ok := st.s.(Syncer)
	if !ok {
		return 0
	}
	if err := syncer.Sync(); err != nil {
		st.err = true
		t.debug("fflush failed", "path", st.name, "error", err)
		return EOF
	}
	return 0
}

// Ferror implements Native.Ferror.
func (t *Table) Ferror(h Handle) bool {
	st := t.lookup(h)
	return st != nil && st.err
}

// Feof implements Native.Feof.
func (t *Table) Feof(h Handle) bool {
	st := t.lookup(h)
	return st != nil && st.eof
}

// Fclose implements Native.Fclose. Closing an unknown handle returns EOF.
func (t *Table) Fclose(h Handle) int {
	t.mu.Lock()
	st, ok := t.streams[h]
	delete(t.streams, h)
	t.mu.Unlock()

	if !ok {
		t.debug("fclose on unknown handle", "handle", uintptr(h))
		return EOF
	}
	if err := st.s.Close(); err != nil {
		t.debug("fclose failed", "path", st.name, "error", err)
		return EOF
	}
	return 0
}

func (t *Table) lookup(h Handle) *stream {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streams[h]
}

func (t *Table) write(st *stream, p []byte) (int, bool) {
	if !st.mode.Write {
		st.err = true
		return 0, false
	}
	n, err := st.s.Write(p)
	if err != nil {
		st.err = true
		t.debug("write failed", "path", st.name, "written", n, "error", err)
		return n, false
	}
	return n, true
}

func (t *Table) debug(msg string, args ...any) {
	if t.logger == nil {
		return
	}
	t.logger.Log(context.Background(), slog.LevelDebug, "stdio: "+msg, args...)
}

var _ Native = (*Table)(nil)
