package minio

import (
	"bytes"
	"context"
	"io"
	"io/fs"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// File represents a MinIO object handle.
// Behavior differs based on open mode (read vs write).
type File struct {
	fs   *MinioFS
	key  string // Full object key (including prefix)
	name string // Original name provided to Fopen
	mode stdio.Mode

	// Read mode fields
	reader *bytes.Reader

	// Write mode fields
	buffer *bytes.Buffer // Accumulates writes
	dirty  bool          // Buffer changed since the last upload
	closed bool          // Prevent double-close
}

// newFileRead creates a File in read mode by downloading the object.
func newFileRead(ctx context.Context, mfs *MinioFS, key, name string) (*File, error) {
	obj, err := mfs.client.GetObject(ctx, mfs.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: translateError(err)}
	}
	defer func() {
		_ = obj.Close()
	}()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: translateError(err)}
	}

	return &File{
		fs:     mfs,
		key:    key,
		name:   name,
		mode:   stdio.ModeReadBinary,
		reader: bytes.NewReader(data),
	}, nil
}

// newFileWrite creates a File in write mode with an empty buffer.
// The object is created on the first flush or on close, even if nothing was written.
func newFileWrite(mfs *MinioFS, key, name string, mode stdio.Mode) *File {
	return &File{
		fs:     mfs,
		key:    key,
		name:   name,
		mode:   mode,
		buffer: new(bytes.Buffer),
		dirty:  true,
	}
}

// Read reads up to len(p) bytes into p. Read is only supported in read mode.
func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: fs.ErrClosed}
	}
	if f.reader == nil {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: fs.ErrInvalid}
	}
	return f.reader.Read(p)
}

// Write appends p to the upload buffer. Write is only supported in write mode.
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: fs.ErrClosed}
	}
	if f.buffer == nil {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: fs.ErrInvalid}
	}
	f.dirty = true
	return f.buffer.Write(p)
}

// Seek sets the offset for the next Read. In write mode the position is
// always the end of the buffer, so only queries of it are supported.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: fs.ErrClosed}
	}
	if f.reader != nil {
		return f.reader.Seek(offset, whence)
	}
	if offset == 0 && (whence == io.SeekCurrent || whence == io.SeekEnd) {
		return int64(f.buffer.Len()), nil
	}
	return 0, &fs.PathError{Op: "seek", Path: f.name, Err: ErrUnsupported}
}

// Close closes the file, releasing any resources.
// In write mode, Close uploads the buffer contents.
func (f *File) Close() error {
	if f.closed {
		return nil // Already closed, idempotent
	}
	f.closed = true

	if f.buffer != nil {
		return f.sync(f.fs.ctx)
	}
	return nil
}

// Sync uploads the buffer contents. In read mode, Sync is a no-op.
func (f *File) Sync() error {
	if f.closed {
		return &fs.PathError{Op: "sync", Path: f.name, Err: fs.ErrClosed}
	}
	if f.buffer != nil {
		return f.sync(f.fs.ctx)
	}
	return nil
}

// sync is the internal implementation that performs the actual upload.
func (f *File) sync(ctx context.Context) error {
	if !f.dirty {
		return nil
	}

	reader := bytes.NewReader(f.buffer.Bytes())
	_, err := f.fs.client.PutObject(
		ctx,
		f.fs.bucket,
		f.key,
		reader,
		int64(f.buffer.Len()),
		minio.PutObjectOptions{
			ContentType: contentType(f.buffer.Bytes()),
		},
	)
	if err != nil {
		return &fs.PathError{Op: "sync", Path: f.name, Err: translateError(err)}
	}

	f.dirty = false
	return nil
}

// contentType sniffs the first bytes of data. Empty data stays untyped binary.
func contentType(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	if len(data) > 512 {
		data = data[:512]
	}
	return mimetype.Detect(data).String()
}

// Name returns the name of the file as provided to Fopen.
func (f *File) Name() string {
	return f.name
}

// Key returns the object key backing the file.
func (f *File) Key() string {
	return f.key
}

// Compile-time interface checks.
var (
	_ stdio.Stream = (*File)(nil)
	_ stdio.Syncer = (*File)(nil)
)
