package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *StructuredConfig {
	cfg := defaultConfig()
	cfg.Vault.Path = "/v"
	cfg.derive()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *StructuredConfig)
		want   error
	}{
		{name: "valid", mutate: func(*StructuredConfig) {}, want: nil},
		{name: "no vault", mutate: func(c *StructuredConfig) { c.Vault.Path = "" }, want: ErrInvalidVaultConfigs},
		{name: "no dsn", mutate: func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, want: ErrInvalidStorageConfigs},
		{name: "zero heartbeat", mutate: func(c *StructuredConfig) { c.Peer.HeartbeatInterval = 0 }, want: ErrInvalidPeerConfigs},
		{name: "zero page size", mutate: func(c *StructuredConfig) { c.Peer.PageSize = 0 }, want: ErrInvalidPeerConfigs},
		{name: "http peer url", mutate: func(c *StructuredConfig) { c.Peer.Addresses = []string{"http://x/api"} }, want: ErrInvalidPeerConfigs},
		{name: "ws peer url", mutate: func(c *StructuredConfig) { c.Peer.Addresses = []string{"ws://10.0.0.2:8484/api/sync/ws"} }, want: nil},
		{name: "zero sync interval", mutate: func(c *StructuredConfig) { c.SharedFolder.SyncInterval = 0 }, want: ErrInvalidSharedFolderConfigs},
		{name: "shared folder disabled skips checks", mutate: func(c *StructuredConfig) {
			c.SharedFolder.Disabled = true
			c.SharedFolder.SyncInterval = 0
		}, want: nil},
		{name: "bad log level", mutate: func(c *StructuredConfig) { c.Log.Level = "loud" }, want: ErrInvalidLogConfigs},
		{name: "no server address", mutate: func(c *StructuredConfig) { c.Server.HTTPAddress = "" }, want: ErrInvalidServerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
