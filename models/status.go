// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/MKhiriev/go-vault-sync/internal/vclock"

// BuildInfo carries build-time metadata injected by linker flags.
type BuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// VaultStatus is the introspection snapshot served by the status API.
type VaultStatus struct {
	DeviceID            string             `json:"device_id"`
	DeviceName          string             `json:"device_name"`
	VaultID             string             `json:"vault_id"`
	Clock               vclock.VectorClock `json:"clock"`
	EventCount          int                `json:"event_count"`
	UnresolvedConflicts int                `json:"unresolved_conflicts"`
	Peers               []PeerInfo         `json:"peers"`
	Build               BuildInfo          `json:"build"`
}

// ConsistencyIssue is one mismatch between materialized state and storage.
type ConsistencyIssue struct {
	DocumentID string `json:"document_id"`
	Path       string `json:"path"`
	Kind       string `json:"kind"`
	Detail     string `json:"detail,omitempty"`
}

// ConsistencyReport is the result of a consistency check.
type ConsistencyReport struct {
	Checked int                `json:"checked"`
	Issues  []ConsistencyIssue `json:"issues"`
}

// Consistent reports whether no issues were found.
func (r ConsistencyReport) Consistent() bool { return len(r.Issues) == 0 }
