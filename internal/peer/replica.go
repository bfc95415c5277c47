package peer

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

// Replica is the local side of a replication session: the event log of one
// vault plus a way to absorb remote events into it.
type Replica interface {
	Identity() models.Identity
	DeviceName() string
	Clock() vclock.VectorClock
	// EventsAfter returns, in causal order, the events not covered by clock.
	EventsAfter(clock vclock.VectorClock) []models.Event
	// Absorb merges remote events into the log and applies the new ones.
	Absorb(ctx context.Context, events []models.Event) ([]models.Event, error)
}
