// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container of the sync
// daemon.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	// Vault selects the vault directory and the local device identity.
	Vault Vault `envPrefix:"VAULT_"`

	// Storage holds the materialized-state database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Peer configures the direct peer replication protocol.
	Peer Peer `envPrefix:"PEER_"`

	// SharedFolder configures the shared-folder transport.
	SharedFolder SharedFolder `envPrefix:"SHARED_FOLDER_"`

	Log Log `envPrefix:"LOG_"`

	// Server holds the listen address of the HTTP API and websocket endpoint.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the daemon address used by syncctl.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// ConfigFilePath is the optional JSON or YAML configuration file.
	// Env: VAULTSYNC_CONFIG, flags: -c / -config.
	ConfigFilePath string `env:"CONFIG"`

	// Args holds positional command-line arguments left after flag parsing.
	Args []string
}

// Vault identifies the vault on disk.
type Vault struct {
	// Path is the root directory of the vault documents.
	// Env: VAULTSYNC_VAULT_PATH
	Path string `env:"PATH"`

	// StateDir holds identity.json, events.log and the state database.
	// Defaults to <Path>/.vaultsync and must be excluded from folder sync.
	// Env: VAULTSYNC_VAULT_STATE_DIR
	StateDir string `env:"STATE_DIR"`

	// DeviceName is the human-readable name announced to peers.
	// Defaults to the hostname.
	// Env: VAULTSYNC_VAULT_DEVICE_NAME
	DeviceName string `env:"DEVICE_NAME"`

	// ID joins an existing vault when the state directory is created fresh.
	// Env: VAULTSYNC_VAULT_ID
	ID string `env:"ID"`
}

type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the SQLite state database settings.
type DB struct {
	// DSN is a go-sqlite3 data source name. The value "memory" selects the
	// in-memory repository. Defaults to <StateDir>/state.db.
	// Env: VAULTSYNC_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Peer configures the direct replication protocol.
type Peer struct {
	// Disabled turns off the websocket endpoint and the peer connector.
	Disabled bool `env:"DISABLED"`

	// Addresses are websocket URLs of peers to dial, e.g.
	// ws://10.0.0.2:8484/api/sync/ws.
	// Env: VAULTSYNC_PEER_ADDRESSES (comma separated)
	Addresses []string `env:"ADDRESSES" envSeparator:","`

	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL"`

	// SuspicionMultiplier is the number of heartbeat intervals without any
	// message after which a peer is considered disconnected.
	SuspicionMultiplier int `env:"SUSPICION_MULTIPLIER"`

	// PageSize caps the number of events in one EVENTS_RESPONSE.
	PageSize int `env:"PAGE_SIZE"`

	// ShutdownTimeout bounds the GOODBYE round on close.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	DialTimeout    time.Duration `env:"DIAL_TIMEOUT"`
	RedialInterval time.Duration `env:"REDIAL_INTERVAL"`
}

// SharedFolder configures the shared-folder transport.
type SharedFolder struct {
	Disabled bool `env:"DISABLED"`

	// Root is the synchronized folder holding the sync/ directory.
	// Defaults to the vault path.
	Root string `env:"ROOT"`

	PresenceInterval time.Duration `env:"PRESENCE_INTERVAL"`
	SyncInterval     time.Duration `env:"SYNC_INTERVAL"`

	// StaleAfter is how old a presence record may be for its device to
	// still count as online.
	StaleAfter time.Duration `env:"STALE_AFTER"`

	// Compress writes zstd-compressed exports. Readers detect the format.
	Compress bool `env:"COMPRESS"`
}

type Log struct {
	// Level is a zerolog level name.
	Level string `env:"LEVEL"`
	// File redirects logs from stdout to a file.
	File string `env:"FILE"`
}

// Server holds network settings of the HTTP API.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: VAULTSYNC_SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds non-websocket API requests.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the settings syncctl uses to reach the daemon.
type Adapter struct {
	// HTTPAddress is the daemon base URL, e.g. http://127.0.0.1:8484.
	HTTPAddress    string        `env:"ADDRESS"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads the daemon configuration from os.Args, the
// environment and the optional config file, applies defaults and validates
// the result.
func GetStructuredConfig() (*StructuredConfig, error) {
	return LoadStructuredConfig(os.Args[0], os.Args[1:])
}

// LoadStructuredConfig is GetStructuredConfig with explicit arguments.
func LoadStructuredConfig(name string, args []string) (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withFlags(name, args).
		withEnv().
		withFile().
		withDefaults().
		build()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}
