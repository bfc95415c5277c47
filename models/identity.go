package models

import "time"

// Identity is generated once per vault state directory and never changes.
type Identity struct {
	DeviceID  string    `json:"device_id"`
	VaultID   string    `json:"vault_id"`
	CreatedAt time.Time `json:"created_at"`
}
