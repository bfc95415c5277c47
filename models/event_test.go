package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/codec"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func samplePayloads() []Payload {
	return []Payload{
		DocumentCreated{DocID: "d1", Path: "notes/a.md", Content: "hello"},
		DocumentUpdated{DocID: "d1", Path: "notes/a.md", BaseHash: "abc", Content: "hello 2"},
		DocumentDeleted{DocID: "d1", Path: "notes/a.md"},
		DocumentRenamed{DocID: "d1", OldPath: "notes/a.md", NewPath: "notes/b.md"},
		LinkCreated{DocID: "d1", Link: Link{ID: "l1", Target: "d2", Label: "see"}},
		LinkUpdated{DocID: "d1", Link: Link{ID: "l1", Target: "d3"}},
		LinkDeleted{DocID: "d1", LinkID: "l1"},
		TagCreated{DocID: "d1", Tag: Tag{ID: "t1", Name: "work", Color: "#f00"}},
		TagUpdated{DocID: "d1", Tag: Tag{ID: "t1", Name: "job"}},
		TagDeleted{DocID: "d1", TagID: "t1"},
		TagAssigned{DocID: "d1", TagName: "work"},
		TagUnassigned{DocID: "d1", TagName: "work"},
		AttributeUpdated{DocID: "d1", Key: "status", Value: strPtr("draft")},
		AttributeUpdated{DocID: "d1", Key: "status", Value: nil},
	}
}

func eventWith(p Payload) Event {
	return Event{
		ID:           "0190a0c8-0000-7000-8000-000000000001",
		Kind:         p.Kind(),
		OriginDevice: "X",
		Timestamp:    time.Date(2026, 5, 1, 10, 0, 0, 123456789, time.UTC),
		Clock:        vclock.VectorClock{"X": 2, "Y": 1},
		Payload:      p,
	}
}

func TestEvent_JSONRoundTrip_AllKinds(t *testing.T) {
	for _, p := range samplePayloads() {
		t.Run(string(p.Kind()), func(t *testing.T) {
			in := eventWith(p)

			data, err := json.Marshal(in)
			require.NoError(t, err)

			var out Event
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestEvent_CBORRoundTrip_AllKinds(t *testing.T) {
	for _, p := range samplePayloads() {
		t.Run(string(p.Kind()), func(t *testing.T) {
			in := eventWith(p)

			data, err := codec.Marshal(in)
			require.NoError(t, err)

			var out Event
			require.NoError(t, codec.Unmarshal(data, &out))
			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.Clock, out.Clock)
			assert.True(t, in.Timestamp.Equal(out.Timestamp))
			assert.Equal(t, in.Payload, out.Payload)
		})
	}
}

func TestEvent_UnmarshalJSON_UnknownKindRejected(t *testing.T) {
	line := `{"id":"e1","kind":"DocumentExploded","origin_device":"X","timestamp":"2026-05-01T10:00:00Z","clock":{"X":1},"payload":{}}`

	var ev Event
	err := json.Unmarshal([]byte(line), &ev)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEventKind))
}

func TestEvent_Validate(t *testing.T) {
	valid := eventWith(DocumentCreated{DocID: "d1", Path: "a.md", Content: "x"})
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(e *Event)
		target error
	}{
		{name: "empty id", mutate: func(e *Event) { e.ID = "" }, target: ErrInvalidEvent},
		{name: "unknown kind", mutate: func(e *Event) { e.Kind = "Nope" }, target: ErrUnknownEventKind},
		{name: "no origin", mutate: func(e *Event) { e.OriginDevice = "" }, target: ErrInvalidEvent},
		{name: "origin missing from clock", mutate: func(e *Event) { e.Clock = vclock.VectorClock{"Y": 1} }, target: ErrInvalidEvent},
		{name: "kind/payload mismatch", mutate: func(e *Event) { e.Kind = KindDocumentDeleted }, target: ErrInvalidEvent},
		{name: "no payload", mutate: func(e *Event) { e.Payload = nil }, target: ErrInvalidEvent},
		{name: "empty document id", mutate: func(e *Event) { e.Payload = DocumentCreated{Path: "a.md"} }, target: ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)
			assert.ErrorIs(t, ev.Validate(), tt.target)
		})
	}
}

func TestEventKinds_EveryKindDecodes(t *testing.T) {
	for _, kind := range EventKinds {
		p, err := decodePayload(kind, func(any) error { return nil })
		require.NoError(t, err, kind)
		assert.Equal(t, kind, p.Kind())
	}
}

func TestErrors_UnwrapAndMessage(t *testing.T) {
	base := errors.New("disk full")

	se := &StorageError{Op: "append", Path: "/v/events.log", Err: base}
	assert.ErrorIs(t, se, base)
	assert.Contains(t, se.Error(), "/v/events.log")

	ie := &IntegrityError{Source: "events.log", Line: 7, Reason: "malformed record", Err: base}
	assert.Equal(t, "integrity: events.log:7: malformed record: disk full", ie.Error())

	var wrapped error = &ProtocolError{Peer: "Y", Reason: "vault mismatch"}
	var pe *ProtocolError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "Y", pe.Peer)
}

func TestDocument_CloneIsDeep(t *testing.T) {
	d := Document{ID: "d1", Links: []Link{{ID: "l1"}}, Attributes: map[string]string{"a": "1"}}
	c := d.Clone()
	c.Links[0].ID = "changed"
	c.Attributes["a"] = "2"

	assert.Equal(t, "l1", d.Links[0].ID)
	assert.Equal(t, "1", d.Attributes["a"])
}
