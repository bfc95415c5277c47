package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultStateDirName = ".vaultsync"
	DefaultStateDBName  = "state.db"
	MemoryDSN           = "memory"
)

func defaultConfig() *StructuredConfig {
	deviceName, err := os.Hostname()
	if err != nil || deviceName == "" {
		deviceName = "device"
	}

	return &StructuredConfig{
		Vault: Vault{
			DeviceName: deviceName,
		},
		Peer: Peer{
			HeartbeatInterval:   5 * time.Second,
			SuspicionMultiplier: 3,
			PageSize:            500,
			ShutdownTimeout:     3 * time.Second,
			DialTimeout:         5 * time.Second,
			RedialInterval:      15 * time.Second,
		},
		SharedFolder: SharedFolder{
			PresenceInterval: 30 * time.Second,
			SyncInterval:     time.Minute,
			StaleAfter:       5 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
		Server: Server{
			HTTPAddress:    "127.0.0.1:8484",
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://127.0.0.1:8484",
			RequestTimeout: 5 * time.Second,
		},
	}
}

// derive fills fields whose defaults depend on other fields.
func (cfg *StructuredConfig) derive() {
	if cfg.Vault.Path == "" {
		return
	}
	if cfg.Vault.StateDir == "" {
		cfg.Vault.StateDir = filepath.Join(cfg.Vault.Path, DefaultStateDirName)
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = filepath.Join(cfg.Vault.StateDir, DefaultStateDBName)
	}
	if cfg.SharedFolder.Root == "" {
		cfg.SharedFolder.Root = cfg.Vault.Path
	}
}
