// Package workers provides the periodic background jobs of a vault:
// presence heartbeat, shared-folder sync and redialing of configured peers.
// It defines the Worker interface and a Workers aggregate that starts and
// stops them together.
package workers

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/internal/sharedfolder"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/workers_mock.go -package=mock

// Worker is a background job. Start returns immediately; Stop blocks until
// the job goroutine has exited.
type Worker interface {
	Name() string
	Start(ctx context.Context)
	Stop()
}

// PresenceUpdater publishes the local presence record.
type PresenceUpdater interface {
	UpdatePresence(ctx context.Context) error
}

// CycleRunner runs one shared-folder cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (sharedfolder.ImportResult, error)
}

// PeerConnector dials peers that have no live session.
type PeerConnector interface {
	ConnectAll(ctx context.Context, addrs []string) error
}
