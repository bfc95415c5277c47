package eventlog

import "errors"

var (
	// ErrClosed is returned by mutations on a closed log.
	ErrClosed = errors.New("event log is closed")
	// ErrInvalidPayload is returned by Append for a nil payload, an unknown
	// kind or an empty document id.
	ErrInvalidPayload = errors.New("invalid event payload")
	// ErrVaultMismatch is returned by Open when the persisted identity
	// belongs to a different vault than the one requested via WithVaultID.
	ErrVaultMismatch = errors.New("state directory belongs to a different vault")
)
