// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
)

// validate checks the merged daemon configuration before startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Vault.Path == "" || cfg.Vault.StateDir == "" {
		return fmt.Errorf("%w: vault path is required", ErrInvalidVaultConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	p := cfg.Peer
	if p.HeartbeatInterval <= 0 || p.SuspicionMultiplier < 1 || p.PageSize < 1 ||
		p.ShutdownTimeout <= 0 || p.DialTimeout <= 0 || p.RedialInterval <= 0 {
		return ErrInvalidPeerConfigs
	}
	for _, addr := range p.Addresses {
		u, err := url.Parse(addr)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("%w: peer address %q must be a ws:// or wss:// URL", ErrInvalidPeerConfigs, addr)
		}
	}

	sf := cfg.SharedFolder
	if !sf.Disabled && (sf.Root == "" || sf.PresenceInterval <= 0 || sf.SyncInterval <= 0 || sf.StaleAfter <= 0) {
		return ErrInvalidSharedFolderConfigs
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogConfigs, err)
	}

	if !cfg.Peer.Disabled && cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (cfg *CtlConfig) validate() error {
	u, err := url.Parse(cfg.Adapter.HTTPAddress)
	if err != nil || u.Scheme == "" || u.Host == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	return nil
}
