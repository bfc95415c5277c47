package eventlog

import (
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

// Identity returns the device and vault identity of the log.
func (l *EventLog) Identity() models.Identity {
	return l.identity
}

// DeviceID is a shortcut for Identity().DeviceID.
func (l *EventLog) DeviceID() string {
	return l.identity.DeviceID
}

// Path returns the location of events.log.
func (l *EventLog) Path() string {
	return l.path
}

// Clock returns a copy of the running clock.
func (l *EventLog) Clock() vclock.VectorClock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return vclock.Clone(l.clock)
}

// Count returns the number of events held.
func (l *EventLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Contains reports whether an event with id is held.
func (l *EventLog) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.index[id]
	return ok
}

// Get returns the event with id.
func (l *EventLog) Get(id string) (models.Event, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[id]
	if !ok {
		return models.Event{}, false
	}
	return l.events[i], true
}

// Events returns every event in causal order.
func (l *EventLog) Events() []models.Event {
	return l.filter(func(models.Event) bool { return true })
}

// EventsAfter returns, in causal order, the events having at least one clock
// component strictly greater than the matching component of clock: the
// events a holder of clock has not seen yet.
func (l *EventLog) EventsAfter(clock vclock.VectorClock) []models.Event {
	return l.filter(func(ev models.Event) bool { return ev.Clock.HasNewerThan(clock) })
}

// EventsByKind returns the events of one kind in causal order.
func (l *EventLog) EventsByKind(kind models.EventKind) []models.Event {
	return l.filter(func(ev models.Event) bool { return ev.Kind == kind })
}

// EventsForDocument returns the events referring to documentID in causal order.
func (l *EventLog) EventsForDocument(documentID string) []models.Event {
	return l.filter(func(ev models.Event) bool { return ev.DocumentID() == documentID })
}

func (l *EventLog) filter(keep func(models.Event) bool) []models.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Event, 0)
	for _, ev := range l.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}
