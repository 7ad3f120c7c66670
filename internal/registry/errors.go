package registry

import "errors"

// Sentinel errors for registry operations.
//
// Coordinator methods return these, sometimes wrapped with additional
// context. Use errors.Is to check for them:
//
//	if errors.Is(err, registry.ErrDeviceNotFound) {
//	    // device never registered (or the registry restarted)
//	}
var (
	// ErrDeviceNotFound indicates the device is not registered.
	ErrDeviceNotFound = errors.New("registry: device not found")

	// ErrInvalidDeviceID indicates a missing or empty device identifier.
	ErrInvalidDeviceID = errors.New("registry: device id is required")

	// ErrInvalidCommand indicates an attempt to queue an empty command.
	ErrInvalidCommand = errors.New("registry: command is required")
)
