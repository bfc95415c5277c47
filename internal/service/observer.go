package service

import "github.com/MKhiriev/go-vault-sync/models"

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	EventsApplied    func(events []models.Event)
	ConflictDetected func(conflict models.ConflictRecord)
	PeerStateChanged func(info models.PeerInfo)
}

func (o ObserverFuncs) OnEventsApplied(events []models.Event) {
	if o.EventsApplied != nil {
		o.EventsApplied(events)
	}
}

func (o ObserverFuncs) OnConflictDetected(conflict models.ConflictRecord) {
	if o.ConflictDetected != nil {
		o.ConflictDetected(conflict)
	}
}

func (o ObserverFuncs) OnPeerStateChanged(info models.PeerInfo) {
	if o.PeerStateChanged != nil {
		o.PeerStateChanged(info)
	}
}
