package media

import "errors"

// Sentinel errors for media operations. Use errors.Is to check for them.
var (
	// ErrNotFound indicates the requested media item does not exist.
	ErrNotFound = errors.New("media: item not found")

	// ErrInvalidKind indicates an unsupported media kind.
	ErrInvalidKind = errors.New("media: invalid kind")

	// ErrInvalidDeviceID indicates a missing or empty device identifier.
	ErrInvalidDeviceID = errors.New("media: device id is required")
)
