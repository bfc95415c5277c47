package config

import "errors"

// Validation errors returned when a configuration group is incomplete or
// invalid.
var (
	// ErrInvalidVaultConfigs indicates a missing vault path or state dir.
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidStorageConfigs indicates an empty state database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidPeerConfigs indicates non-positive heartbeat, page size or
	// timeouts of the peer protocol.
	ErrInvalidPeerConfigs         = errors.New("invalid peer configuration")
	ErrInvalidSharedFolderConfigs = errors.New("invalid shared folder configuration")
	ErrInvalidLogConfigs          = errors.New("invalid log configuration")
	ErrInvalidServerConfigs       = errors.New("invalid server configuration")
	// ErrInvalidAdapterConfigs indicates a missing daemon address or timeout
	// for syncctl.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
