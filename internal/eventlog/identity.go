package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

// loadOrCreateIdentity reads identity.json, creating it on first use.
func loadOrCreateIdentity(path string, o *options) (models.Identity, bool, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var id models.Identity
		if err := json.Unmarshal(data, &id); err != nil {
			return models.Identity{}, false, &models.IntegrityError{Source: path, Reason: "malformed identity", Err: err}
		}
		if id.DeviceID == "" || id.VaultID == "" {
			return models.Identity{}, false, &models.IntegrityError{Source: path, Reason: "identity without device or vault id"}
		}
		if o.vaultID != "" && o.vaultID != id.VaultID {
			return models.Identity{}, false, fmt.Errorf("%w: have %s, want %s", ErrVaultMismatch, id.VaultID, o.vaultID)
		}
		return id, false, nil

	case errors.Is(err, fs.ErrNotExist):
		id := models.Identity{
			DeviceID:  o.ids.Generate(),
			VaultID:   o.vaultID,
			CreatedAt: o.now().UTC(),
		}
		if id.VaultID == "" {
			id.VaultID = o.ids.Generate()
		}

		data, err := json.MarshalIndent(id, "", "  ")
		if err != nil {
			return models.Identity{}, false, fmt.Errorf("marshal identity: %w", err)
		}
		if err := utils.WriteFileAtomic(path, data, 0o600); err != nil {
			return models.Identity{}, false, &models.StorageError{Op: "write identity", Path: path, Err: err}
		}
		return id, true, nil

	default:
		return models.Identity{}, false, &models.StorageError{Op: "read identity", Path: path, Err: err}
	}
}
