package peer

import (
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/codec"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

// MessageType names a protocol message.
type MessageType string

const (
	MsgHello          MessageType = "HELLO"
	MsgHelloAck       MessageType = "HELLO_ACK"
	MsgClockExchange  MessageType = "CLOCK_EXCHANGE"
	MsgEventsRequest  MessageType = "EVENTS_REQUEST"
	MsgEventsResponse MessageType = "EVENTS_RESPONSE"
	MsgEventsAck      MessageType = "EVENTS_ACK"
	MsgEventBroadcast MessageType = "EVENT_BROADCAST"
	MsgHeartbeat      MessageType = "HEARTBEAT"
	MsgGoodbye        MessageType = "GOODBYE"
)

func (t MessageType) valid() bool {
	switch t {
	case MsgHello, MsgHelloAck, MsgClockExchange, MsgEventsRequest, MsgEventsResponse,
		MsgEventsAck, MsgEventBroadcast, MsgHeartbeat, MsgGoodbye:
		return true
	}
	return false
}

// Message is one protocol frame. Every message carries the sender's device
// id and current clock; the remaining fields are used by specific types.
type Message struct {
	Type  MessageType        `cbor:"type"`
	From  string             `cbor:"from"`
	Clock vclock.VectorClock `cbor:"clock"`

	// HELLO, HELLO_ACK
	VaultID    string `cbor:"vault_id,omitempty"`
	DeviceName string `cbor:"device_name,omitempty"`

	// HELLO_ACK
	Accepted bool   `cbor:"accepted,omitempty"`
	Reason   string `cbor:"reason,omitempty"`

	// EVENTS_REQUEST
	AfterClock vclock.VectorClock `cbor:"after,omitempty"`

	// EVENTS_RESPONSE, EVENT_BROADCAST
	Events   []models.Event `cbor:"events,omitempty"`
	Complete bool           `cbor:"complete,omitempty"`
}

// Encode serializes msg with deterministic CBOR.
func Encode(msg Message) ([]byte, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	return codec.Marshal(msg)
}

// Decode parses a frame produced by Encode.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := codec.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if err := msg.validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (m Message) validate() error {
	if !m.Type.valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
	if m.From == "" {
		return fmt.Errorf("%w: %s without sender", ErrInvalidMessage, m.Type)
	}
	switch m.Type {
	case MsgHello:
		if m.VaultID == "" {
			return fmt.Errorf("%w: HELLO without vault id", ErrInvalidMessage)
		}
	case MsgEventBroadcast:
		if len(m.Events) == 0 {
			return fmt.Errorf("%w: EVENT_BROADCAST without event", ErrInvalidMessage)
		}
	}
	return nil
}
