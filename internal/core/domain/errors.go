package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorised indicates a missing or incorrect function key.
	ErrUnauthorised = errors.New("unauthorised")

	// Storage errors.

	// ErrStoreUnavailable indicates a blob store could not be resolved
	// from the requested connection environment variable.
	ErrStoreUnavailable = errors.New("blob store unavailable")

	// ErrEnvNotAllowed indicates the connection environment variable name
	// is not on the configured allowlist.
	ErrEnvNotAllowed = errors.New("connection environment variable not allowed")

	// Detection errors.

	// ErrDetectorUnavailable indicates the detection endpoint is not configured.
	ErrDetectorUnavailable = errors.New("detection endpoint unavailable")

	// ErrDetectionFailed indicates the detection endpoint returned a failure.
	ErrDetectionFailed = errors.New("detection request failed")

	// Metadata errors.

	// ErrNotJPEG indicates the blob bytes are not a JPEG image.
	ErrNotJPEG = errors.New("not a JPEG image")
)
