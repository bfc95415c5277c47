// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/codec"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
)

// EventKind names one variant of the closed set of domain events.
type EventKind string

const (
	KindDocumentCreated  EventKind = "DocumentCreated"
	KindDocumentUpdated  EventKind = "DocumentUpdated"
	KindDocumentDeleted  EventKind = "DocumentDeleted"
	KindDocumentRenamed  EventKind = "DocumentRenamed"
	KindLinkCreated      EventKind = "LinkCreated"
	KindLinkUpdated      EventKind = "LinkUpdated"
	KindLinkDeleted      EventKind = "LinkDeleted"
	KindTagCreated       EventKind = "TagCreated"
	KindTagUpdated       EventKind = "TagUpdated"
	KindTagDeleted       EventKind = "TagDeleted"
	KindTagAssigned      EventKind = "TagAssigned"
	KindTagUnassigned    EventKind = "TagUnassigned"
	KindAttributeUpdated EventKind = "AttributeUpdated"
)

// EventKinds lists every known kind in declaration order.
var EventKinds = []EventKind{
	KindDocumentCreated,
	KindDocumentUpdated,
	KindDocumentDeleted,
	KindDocumentRenamed,
	KindLinkCreated,
	KindLinkUpdated,
	KindLinkDeleted,
	KindTagCreated,
	KindTagUpdated,
	KindTagDeleted,
	KindTagAssigned,
	KindTagUnassigned,
	KindAttributeUpdated,
}

// Valid reports whether k is one of the known kinds.
func (k EventKind) Valid() bool {
	for _, known := range EventKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Payload is the kind-specific body of an Event. The set of implementations
// is closed: every type in payloads.go, one per EventKind.
type Payload interface {
	Kind() EventKind
	// DocumentID returns the document the event refers to.
	DocumentID() string
}

// Event is an immutable, causally stamped domain event.
//
// Clock is a snapshot that already contains the post-increment counter of
// OriginDevice. Two events are the same event iff their IDs are equal.
type Event struct {
	ID           string
	Kind         EventKind
	OriginDevice string
	Timestamp    time.Time
	Clock        vclock.VectorClock
	Payload      Payload
}

// CausalClock implements vclock.Causal.
func (e Event) CausalClock() vclock.VectorClock { return e.Clock }

// CausalTimestamp implements vclock.Causal.
func (e Event) CausalTimestamp() time.Time { return e.Timestamp }

// CausalID implements vclock.Causal.
func (e Event) CausalID() string { return e.ID }

// DocumentID is a shortcut for e.Payload.DocumentID(); empty if the payload is nil.
func (e Event) DocumentID() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.DocumentID()
}

// Validate checks the structural invariants of an event received from disk or
// from a peer. The returned error wraps ErrInvalidEvent or ErrUnknownEventKind.
func (e Event) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidEvent)
	case !e.Kind.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownEventKind, e.Kind)
	case e.OriginDevice == "":
		return fmt.Errorf("%w: event %s has no origin device", ErrInvalidEvent, e.ID)
	case e.Clock.Get(e.OriginDevice) == 0:
		return fmt.Errorf("%w: event %s clock %s has no component for origin %s",
			ErrInvalidEvent, e.ID, e.Clock, e.OriginDevice)
	case e.Payload == nil:
		return fmt.Errorf("%w: event %s has no payload", ErrInvalidEvent, e.ID)
	case e.Payload.Kind() != e.Kind:
		return fmt.Errorf("%w: event %s kind %s carries %s payload",
			ErrInvalidEvent, e.ID, e.Kind, e.Payload.Kind())
	case e.Payload.DocumentID() == "":
		return fmt.Errorf("%w: event %s has empty document id", ErrInvalidEvent, e.ID)
	}
	return nil
}

// jsonEvent is the on-disk shape of an Event: one per line in the event log.
type jsonEvent struct {
	ID           string             `json:"id"`
	Kind         EventKind          `json:"kind"`
	OriginDevice string             `json:"origin_device"`
	Timestamp    time.Time          `json:"timestamp"`
	Clock        vclock.VectorClock `json:"clock"`
	Payload      json.RawMessage    `json:"payload"`
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("%w: event %s has no payload", ErrInvalidEvent, e.ID)
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Kind, err)
	}

	return json.Marshal(jsonEvent{
		ID:           e.ID,
		Kind:         e.Kind,
		OriginDevice: e.OriginDevice,
		Timestamp:    e.Timestamp,
		Clock:        e.Clock,
		Payload:      payload,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown kinds are rejected with
// ErrUnknownEventKind.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw jsonEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := decodePayload(raw.Kind, func(v any) error {
		return json.Unmarshal(raw.Payload, v)
	})
	if err != nil {
		return err
	}

	*e = Event{
		ID:           raw.ID,
		Kind:         raw.Kind,
		OriginDevice: raw.OriginDevice,
		Timestamp:    raw.Timestamp,
		Clock:        raw.Clock,
		Payload:      payload,
	}
	return nil
}

// cborEvent is the wire shape of an Event inside peer protocol messages.
type cborEvent struct {
	ID           string             `cbor:"id"`
	Kind         EventKind          `cbor:"kind"`
	OriginDevice string             `cbor:"origin"`
	Timestamp    time.Time          `cbor:"ts"`
	Clock        vclock.VectorClock `cbor:"clock"`
	Payload      codec.RawMessage   `cbor:"payload"`
}

// MarshalCBOR implements cbor.Marshaler.
func (e Event) MarshalCBOR() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("%w: event %s has no payload", ErrInvalidEvent, e.ID)
	}
	payload, err := codec.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Kind, err)
	}

	return codec.Marshal(cborEvent{
		ID:           e.ID,
		Kind:         e.Kind,
		OriginDevice: e.OriginDevice,
		Timestamp:    e.Timestamp,
		Clock:        e.Clock,
		Payload:      payload,
	})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (e *Event) UnmarshalCBOR(data []byte) error {
	var raw cborEvent
	if err := codec.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := decodePayload(raw.Kind, func(v any) error {
		return codec.Unmarshal(raw.Payload, v)
	})
	if err != nil {
		return err
	}

	*e = Event{
		ID:           raw.ID,
		Kind:         raw.Kind,
		OriginDevice: raw.OriginDevice,
		Timestamp:    raw.Timestamp,
		Clock:        raw.Clock,
		Payload:      payload,
	}
	return nil
}

func decodePayload(kind EventKind, decode func(any) error) (Payload, error) {
	switch kind {
	case KindDocumentCreated:
		return decodeInto[DocumentCreated](decode)
	case KindDocumentUpdated:
		return decodeInto[DocumentUpdated](decode)
	case KindDocumentDeleted:
		return decodeInto[DocumentDeleted](decode)
	case KindDocumentRenamed:
		return decodeInto[DocumentRenamed](decode)
	case KindLinkCreated:
		return decodeInto[LinkCreated](decode)
	case KindLinkUpdated:
		return decodeInto[LinkUpdated](decode)
	case KindLinkDeleted:
		return decodeInto[LinkDeleted](decode)
	case KindTagCreated:
		return decodeInto[TagCreated](decode)
	case KindTagUpdated:
		return decodeInto[TagUpdated](decode)
	case KindTagDeleted:
		return decodeInto[TagDeleted](decode)
	case KindTagAssigned:
		return decodeInto[TagAssigned](decode)
	case KindTagUnassigned:
		return decodeInto[TagUnassigned](decode)
	case KindAttributeUpdated:
		return decodeInto[AttributeUpdated](decode)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventKind, kind)
	}
}

func decodeInto[T Payload](decode func(any) error) (Payload, error) {
	var p T
	if err := decode(&p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", p.Kind(), err)
	}
	return p, nil
}
