// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllGroups(t *testing.T) {
	// Arrange
	vars := map[string]string{
		"VAULTSYNC_CONFIG": "/etc/vaultsync.yaml",

		"VAULTSYNC_VAULT_PATH":        "/data/vault",
		"VAULTSYNC_VAULT_STATE_DIR":   "/data/state",
		"VAULTSYNC_VAULT_DEVICE_NAME": "laptop",
		"VAULTSYNC_VAULT_ID":          "vault-1",

		"VAULTSYNC_STORAGE_DB_DSN": "memory",

		"VAULTSYNC_PEER_ADDRESSES":            "ws://a:1/api/sync/ws,ws://b:2/api/sync/ws",
		"VAULTSYNC_PEER_HEARTBEAT_INTERVAL":   "2s",
		"VAULTSYNC_PEER_SUSPICION_MULTIPLIER": "4",
		"VAULTSYNC_PEER_PAGE_SIZE":            "10",

		"VAULTSYNC_SHARED_FOLDER_DISABLED":    "true",
		"VAULTSYNC_SHARED_FOLDER_STALE_AFTER": "1m",
		"VAULTSYNC_SHARED_FOLDER_COMPRESS":    "true",

		"VAULTSYNC_LOG_LEVEL":       "debug",
		"VAULTSYNC_SERVER_ADDRESS":  "0.0.0.0:9000",
		"VAULTSYNC_ADAPTER_ADDRESS": "http://localhost:9000",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/etc/vaultsync.yaml", cfg.ConfigFilePath)
	assert.Equal(t, "/data/vault", cfg.Vault.Path)
	assert.Equal(t, "/data/state", cfg.Vault.StateDir)
	assert.Equal(t, "laptop", cfg.Vault.DeviceName)
	assert.Equal(t, "vault-1", cfg.Vault.ID)
	assert.Equal(t, "memory", cfg.Storage.DB.DSN)
	assert.Equal(t, []string{"ws://a:1/api/sync/ws", "ws://b:2/api/sync/ws"}, cfg.Peer.Addresses)
	assert.Equal(t, 2*time.Second, cfg.Peer.HeartbeatInterval)
	assert.Equal(t, 4, cfg.Peer.SuspicionMultiplier)
	assert.Equal(t, 10, cfg.Peer.PageSize)
	assert.True(t, cfg.SharedFolder.Disabled)
	assert.True(t, cfg.SharedFolder.Compress)
	assert.Equal(t, time.Minute, cfg.SharedFolder.StaleAfter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, "http://localhost:9000", cfg.Adapter.HTTPAddress)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("VAULTSYNC_PEER_HEARTBEAT_INTERVAL", "soon")

	err := parseEnv(&StructuredConfig{})
	assert.Error(t, err)
}
