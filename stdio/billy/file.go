package billy

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// File wraps a go-billy File and satisfies stdio.Stream.
type File struct {
	file billy.File
}

// Close implements stdio.Stream.
func (f *File) Close() error {
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("billy: close %q: %w", f.file.Name(), err)
	}
	return nil
}

// Name returns the name the file was opened with.
func (f *File) Name() string {
	return f.file.Name()
}

// Read implements stdio.Stream.
func (f *File) Read(p []byte) (n int, err error) {
	n, err = f.file.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, fmt.Errorf("billy: read %q: %w", f.file.Name(), err)
	}
	return n, nil
}

// Seek implements stdio.Stream.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.file.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("billy: seek %q off=%d whence=%d: %w", f.file.Name(), offset, whence, err)
	}
	return pos, nil
}

// Write implements stdio.Stream.
func (f *File) Write(p []byte) (n int, err error) {
	n, err = f.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("billy: write %q: %w", f.file.Name(), err)
	}
	return n, nil
}

// Sync commits the file to stable storage when the underlying file supports it.
// In-memory files have nothing to commit.
func (f *File) Sync() error {
	s, ok := f.file.(stdio.Syncer)
	if !ok {
		return nil
	}
	if err := s.Sync(); err != nil {
		return fmt.Errorf("billy: sync %q: %w", f.file.Name(), err)
	}
	return nil
}

var (
	_ stdio.Stream = (*File)(nil)
	_ stdio.Syncer = (*File)(nil)
)
