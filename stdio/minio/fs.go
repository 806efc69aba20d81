// Package minio provides a stdio stream backend that stores files as objects
// in a MinIO (or any S3 compatible) bucket.
//
// Object stores have no directories and no partial writes: a file opened for
// reading is downloaded whole, and a file opened for writing is buffered in
// memory and uploaded when it is flushed or closed.
package minio

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// ErrUnsupported is returned for modes and seeks an object store cannot honor.
var ErrUnsupported = errors.New(errors.CodeNotImplemented, "minio: operation not supported")

// MinioFS opens stdio streams on objects of one bucket.
//
//nolint:revive // MinioFS mirrors the name used by the filesystem adapter.
type MinioFS struct {
	client *minio.Client
	bucket string
	prefix string
	ctx    context.Context
}

// Option configures a MinioFS.
type Option func(*MinioFS)

// WithKeyPrefix stores every object under prefix.
func WithKeyPrefix(prefix string) Option {
	return func(m *MinioFS) {
		m.prefix = strings.Trim(prefix, "/")
	}
}

// WithContext sets the context used for every request. The stream primitives
// have no context of their own, so this is the only way to bound them.
func WithContext(ctx context.Context) Option {
	return func(m *MinioFS) {
		m.ctx = ctx
	}
}

// New creates a MinioFS over an existing client and bucket.
func New(client *minio.Client, bucket string, opts ...Option) *MinioFS {
	m := &MinioFS{
		client: client,
		bucket: bucket,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewClient creates a MinIO client with static credentials.
func NewClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "minio: create client",
			map[string]interface{}{"endpoint": endpoint})
	}
	return client, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (m *MinioFS) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return translateError(err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return translateError(err)
	}
	return nil
}

// Native returns a stdio.Native serving streams from this bucket.
func (m *MinioFS) Native(opts ...stdio.Option) *stdio.Table {
	return stdio.NewTable(m, opts...)
}

// OpenStream implements stdio.Opener.
//
//nolint:ireturn // stdio.Opener returns the stream interface.
func (m *MinioFS) OpenStream(name string, mode stdio.Mode) (stdio.Stream, error) {
	key := m.key(name)

	switch {
	case mode.Read && mode.Write:
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrUnsupported.WithContext("mode", mode.String())}
	case mode.Read:
		return newFileRead(m.ctx, m, key, name)
	case mode.Exclusive:
		if _, err := m.client.StatObject(m.ctx, m.bucket, key, minio.StatObjectOptions{}); err == nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
		}
		return newFileWrite(m, key, name, mode), nil
	case mode.Append:
		f := newFileWrite(m, key, name, mode)
		existing, err := newFileRead(m.ctx, m, key, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return f, nil
			}
			return nil, err
		}
		if _, err := f.buffer.ReadFrom(existing.reader); err != nil {
			return nil, fmt.Errorf("minio: append %q: %w", name, err)
		}
		return f, nil
	default:
		return newFileWrite(m, key, name, mode), nil
	}
}

// key maps a volume path to an object key.
func (m *MinioFS) key(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if m.prefix == "" {
		return name
	}
	return m.prefix + "/" + name
}

// translateError maps MinIO error responses onto io/fs errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("minio: %s: %w", resp.Message, fs.ErrNotExist)
	case "AccessDenied":
		return fmt.Errorf("minio: %s: %w", resp.Message, fs.ErrPermission)
	default:
		return errors.Wrap(err, errors.CodeNetwork, "minio: request failed")
	}
}
