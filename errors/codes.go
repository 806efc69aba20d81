// Package errors provides the coded error type shared by the usd packages.
// It extends Go's standard error handling with string error codes and
// key/value context, while staying compatible with errors.Is and errors.As.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested file does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeUnavailable indicates the volume or file could not be reached.
	// Open failures collapse into this code because the native layer does
	// not report a cause.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// CodeClosed indicates an operation on a handle that was already released.
	CodeClosed ErrorCode = "CLOSED"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeIO indicates a read, write, seek or close on the stream failed.
	CodeIO ErrorCode = "IO_ERROR"

	// CodeNetwork indicates a network operation against a remote backend failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the requested functionality is not implemented.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
