package models

import (
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/vclock"
)

// PeerState is the connection state of a replication peer.
type PeerState string

const (
	PeerDisconnected PeerState = "disconnected"
	PeerConnecting   PeerState = "connecting"
	PeerConnected    PeerState = "connected"
	PeerSyncing      PeerState = "syncing"
	PeerSynced       PeerState = "synced"
	PeerError        PeerState = "error"
)

// PeerInfo is a transient snapshot of one peer connection.
type PeerInfo struct {
	ID             string             `json:"id"`
	DisplayName    string             `json:"display_name"`
	Address        string             `json:"address,omitempty"`
	State          PeerState          `json:"state"`
	LastKnownClock vclock.VectorClock `json:"last_known_clock"`
	LastSeen       time.Time          `json:"last_seen"`
	EventsSent     uint64             `json:"events_sent"`
	EventsReceived uint64             `json:"events_received"`
	LastError      string             `json:"last_error,omitempty"`
}
