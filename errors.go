package usd

import (
	"io/fs"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
)

var (
	// ErrNotOpened is returned by Create and Open when the native layer
	// yields a null handle. The cause (volume not mounted, invalid path,
	// no space, no permission) is not distinguished.
	ErrNotOpened = errors.New(errors.CodeUnavailable, "usd: file could not be opened")

	// ErrLength is returned by ReadFile when the native layer reports a
	// negative file length.
	ErrLength = errors.New(errors.CodeIO, "usd: file length could not be determined")

	// ErrClosed is wrapped by every operation on a released File.
	ErrClosed = fs.ErrClosed
)
