// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/vclock"
)

// DevicePresence is the record each device periodically overwrites in the
// shared folder so that others can discover it.
type DevicePresence struct {
	DeviceID   string             `json:"device_id"`
	DeviceName string             `json:"device_name"`
	VaultID    string             `json:"vault_id"`
	Clock      vclock.VectorClock `json:"clock"`
	LastSeen   time.Time          `json:"last_seen"`
	EventCount int                `json:"event_count"`
}

// PeerPresence is a scanned presence record together with what the local
// device concluded about it.
type PeerPresence struct {
	DevicePresence
	Online bool `json:"online"`
	// NeedsSync is set when the peer lacks some of our events: its clock
	// is before or concurrent with ours.
	NeedsSync bool `json:"needs_sync"`
	// Ahead is set when the peer holds events our clock does not cover.
	Ahead bool `json:"ahead"`
}
