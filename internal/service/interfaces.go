package service

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/internal/peer"
	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// VaultService is what the HTTP layer needs from an open vault.
type VaultService interface {
	Status(ctx context.Context) (models.VaultStatus, error)
	Peers() []models.PeerInfo
	PresencePeers() []models.PeerPresence

	Conflicts(ctx context.Context, unresolvedOnly bool) ([]models.ConflictRecord, error)
	ResolveConflict(ctx context.Context, id string) error
	VerifyConsistency(ctx context.Context) (models.ConsistencyReport, error)

	// SyncNow runs every transport once.
	SyncNow(ctx context.Context) error
	// AcceptPeer serves an inbound peer channel until the session ends.
	AcceptPeer(ctx context.Context, ch peer.Channel) error
}

// Observer is notified of replication activity. Callbacks run synchronously
// on the goroutine that caused them and must not block.
type Observer interface {
	OnEventsApplied(events []models.Event)
	OnConflictDetected(conflict models.ConflictRecord)
	OnPeerStateChanged(info models.PeerInfo)
}

// Transport moves events between this vault and other devices.
type Transport interface {
	Name() string
	// Broadcast hands freshly appended local events to the transport.
	Broadcast(ctx context.Context, events []models.Event)
	// Sync runs one synchronization round.
	Sync(ctx context.Context) error
	Close(ctx context.Context) error
}
