package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEventKind is returned when an event carries a kind outside the
	// closed set of EventKinds.
	ErrUnknownEventKind = errors.New("unknown event kind")
	ErrInvalidEvent     = errors.New("invalid event")
)

// StorageError reports an I/O failure on the event log, presence/export files
// or the document store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IntegrityError reports a malformed persisted or received record. It is never
// repaired automatically.
type IntegrityError struct {
	// Source is the file or peer the record came from.
	Source string
	// Line is the 1-based line number for line-oriented sources, 0 otherwise.
	Line   int
	Reason string
	Err    error
}

func (e *IntegrityError) Error() string {
	msg := "integrity: " + e.Source
	if e.Line > 0 {
		msg += fmt.Sprintf(":%d", e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// ProtocolError reports an unexpected message or a handshake rejection on a
// peer connection. It drops that connection only.
type ProtocolError struct {
	Peer   string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("protocol: peer %q: %s", e.Peer, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }
