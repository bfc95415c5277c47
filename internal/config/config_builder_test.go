package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_FirstSourceWins verifies the merge precedence: a field keeps the
// value of the first config that set it, later configs only fill gaps.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Log: Log{Level: "debug"}},
		&StructuredConfig{Log: Log{Level: "warn", File: "/tmp/x.log"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/x.log", cfg.Log.File)
}

func TestBuild_DerivesVaultPaths(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Vault: Vault{Path: "/data/vault"}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/vault", ".vaultsync"), cfg.Vault.StateDir)
	assert.Equal(t, filepath.Join("/data/vault", ".vaultsync", "state.db"), cfg.Storage.DB.DSN)
	assert.Equal(t, "/data/vault", cfg.SharedFolder.Root)
}

func TestLoadStructuredConfig_FlagsOverEnvOverFileOverDefaults(t *testing.T) {
	file := writeTempConfig(t, "cfg.yaml", `
vault:
  path: /from/file
  device_name: file-device
peer:
  page_size: 50
  heartbeat_interval: 2s
log:
  level: error
`)
	t.Setenv("VAULTSYNC_VAULT_DEVICE_NAME", "env-device")
	t.Setenv("VAULTSYNC_LOG_LEVEL", "warn")

	cfg, err := LoadStructuredConfig("syncd", []string{"-c", file, "-log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.Vault.Path)
	assert.Equal(t, "env-device", cfg.Vault.DeviceName)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Peer.PageSize)
	assert.Equal(t, 2*time.Second, cfg.Peer.HeartbeatInterval)
	// defaults fill the rest
	assert.Equal(t, 3, cfg.Peer.SuspicionMultiplier)
	assert.Equal(t, "127.0.0.1:8484", cfg.Server.HTTPAddress)
	assert.Equal(t, time.Minute, cfg.SharedFolder.SyncInterval)
}

func TestLoadStructuredConfig_MissingVaultFails(t *testing.T) {
	_, err := LoadStructuredConfig("syncd", nil)
	assert.ErrorIs(t, err, ErrInvalidVaultConfigs)
}

func TestLoadStructuredConfig_MissingFileFails(t *testing.T) {
	_, err := LoadStructuredConfig("syncd", []string{"-vault", "/v", "-config", "/nonexistent/cfg.json"})
	require.Error(t, err)
}

func TestLoadCtlConfig(t *testing.T) {
	cfg, err := LoadCtlConfig("syncctl", []string{"-daemon", "http://10.0.0.5:9000", "status"})
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, []string{"status"}, cfg.Args)
}

func TestLoadCtlConfig_InvalidAddress(t *testing.T) {
	_, err := LoadCtlConfig("syncctl", []string{"-daemon", "not a url"})
	assert.ErrorIs(t, err, ErrInvalidAdapterConfigs)
}
