// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects the daemon to the network.
//
// The websocket side carries the peer protocol: [NewWSDialer] opens outbound
// channels and [Upgrade] turns an inbound HTTP request into one. Frames are
// binary messages encoded by the peer wire codec.
//
// [StatusClient] is the resty-based client syncctl uses against the daemon's
// HTTP API. HTTP status codes are mapped back to the sentinel values in
// errors.go by mapHTTPError, so callers can use [errors.Is] (e.g.
// [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// StatusClient queries a running daemon.
type StatusClient interface {
	Status(ctx context.Context) (models.VaultStatus, error)
	Peers(ctx context.Context) (PeersResponse, error)
	Conflicts(ctx context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error)
	ResolveConflict(ctx context.Context, id string) error
	Consistency(ctx context.Context) (models.ConsistencyReport, error)
	// Sync asks the daemon to run every transport once.
	Sync(ctx context.Context) error
}

// PeersResponse is the body of GET /api/peers.
type PeersResponse struct {
	Direct   []models.PeerInfo     `json:"direct"`
	Presence []models.PeerPresence `json:"presence"`
}
