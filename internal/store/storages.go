package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

// Storages groups the document store and the state repository of one vault.
type Storages struct {
	Documents DocumentStore
	State     StateRepository
}

// NewStorages opens the state database and the document store described by
// cfg. The "memory" DSN selects the in-memory repository; any other DSN is
// opened with SQLite and migrated.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	var reserved []string
	if rel, err := filepath.Rel(cfg.Vault.Path, cfg.Vault.StateDir); err == nil && filepath.IsLocal(rel) {
		reserved = append(reserved, filepath.ToSlash(rel))
	}
	docs := NewFileDocumentStore(cfg.Vault.Path, log, reserved...)

	if cfg.Storage.DB.DSN == config.MemoryDSN {
		log.Info().Str("func", "NewStorages").Msg("using in-memory state repository")
		return &Storages{Documents: docs, State: NewMemoryStateRepository()}, nil
	}

	db, err := NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to state DB: %w", err)
	}
	if err = db.Migrate(); err != nil {
		db.Close()
		log.Err(err).Str("func", "NewStorages").Msg("error migrating state DB")
		return nil, fmt.Errorf("error migrating state DB: %w", err)
	}

	return &Storages{Documents: docs, State: NewStateRepository(db, log)}, nil
}

func (s *Storages) Close() error {
	return s.State.Close()
}
