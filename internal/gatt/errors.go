package gatt

import "errors"

var (
	// ErrTransportUnavailable is returned when an operation needs an open
	// transport handle and the session has none.
	ErrTransportUnavailable = errors.New("gatt: transport unavailable")
	// ErrRoleUnbound is returned for a write to a role that no discovered
	// characteristic was bound to.
	ErrRoleUnbound = errors.New("gatt: role unbound")
	// ErrCharacteristicNotFound is returned for a UUID-addressed write when
	// the service or characteristic does not exist.
	ErrCharacteristicNotFound = errors.New("gatt: characteristic not found")
	// ErrDiscoveryFailed is reported when the transport completes discovery
	// with a non-success status.
	ErrDiscoveryFailed = errors.New("gatt: service discovery failed")
	// ErrPrivilegedOperationUnsupported is returned by Unbond when the
	// transport has no way to remove a pairing.
	ErrPrivilegedOperationUnsupported = errors.New("gatt: privileged operation unsupported")
	ErrWriteNotSubmitted              = errors.New("gatt: write not submitted")
	ErrAlreadyConnected               = errors.New("gatt: already connected")
	ErrInvalidUUID                    = errors.New("gatt: invalid UUID")
)
