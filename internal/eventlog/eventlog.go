// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package eventlog is the durable, append-only event store of one vault.
//
// The log is a newline-delimited JSON file, one models.Event per line, next to
// an identity.json holding the device and vault ids. An EventLog keeps every
// event in memory in a causal order, together with the running vector clock
// (the merge of every contained event's clock).
//
// Append and MergeRemote are serialized by a single writer lock and write
// through one O_APPEND handle followed by fsync. The in-memory state only
// advances after the write is durable; a failed write is truncated away.
package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	IdentityFileName = "identity.json"
	LogFileName      = "events.log"
)

// EventLog owns the event sequence, the running clock and the identity of
// one vault. Create it with Open and release it with Close.
type EventLog struct {
	mu sync.RWMutex

	dir  string
	path string
	file *os.File
	// size is the byte length of the durable log, the truncation point when
	// a write fails.
	size int64

	identity models.Identity
	clock    vclock.VectorClock
	// events is kept in a causal order (a linear extension of happened-before).
	events []models.Event
	index  map[string]int

	now    func() time.Time
	ids    IDGenerator
	closed bool

	logger *logger.Logger
}

// Open loads or creates the identity in stateDir, then replays events.log to
// rebuild the in-memory index and running clock.
//
// A malformed unterminated last record is a torn write: it is discarded and
// the file truncated to the last complete record. Any other malformed record
// aborts Open with a *models.IntegrityError.
func Open(ctx context.Context, stateDir string, log *logger.Logger, opts ...Option) (*EventLog, error) {
	o := &options{
		now: time.Now,
		ids: utils.NewUUIDGenerator(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, &models.StorageError{Op: "create state dir", Path: stateDir, Err: err}
	}

	identity, created, err := loadOrCreateIdentity(filepath.Join(stateDir, IdentityFileName), o)
	if err != nil {
		return nil, err
	}

	l := &EventLog{
		dir:      stateDir,
		path:     filepath.Join(stateDir, LogFileName),
		identity: identity,
		clock:    vclock.New(),
		index:    make(map[string]int),
		now:      o.now,
		ids:      o.ids,
		logger:   log.WithComponent("eventlog"),
	}

	if err := l.load(ctx); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, &models.StorageError{Op: "open", Path: l.path, Err: err}
	}
	l.file = file

	l.logger.Info().
		Str("device_id", identity.DeviceID).
		Str("vault_id", identity.VaultID).
		Bool("new_identity", created).
		Int("events", len(l.events)).
		Str("clock", l.clock.String()).
		Msg("event log opened")

	return l, nil
}

// load replays the on-disk log.
func (l *EventLog) load(ctx context.Context) error {
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return &models.StorageError{Op: "open", Path: l.path, Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var (
		offset     int64
		lineNo     int
		needsSort  bool
		terminated = true
	)

	for {
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line, readErr := r.ReadBytes('\n')
		if len(line) == 0 && errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return &models.StorageError{Op: "read", Path: l.path, Err: readErr}
		}
		lineNo++

		complete := readErr == nil
		record := bytes.TrimSpace(line)
		if len(record) == 0 {
			offset += int64(len(line))
			continue
		}

		ev, parseErr := decodeRecord(record)
		if parseErr != nil {
			if !complete {
				// torn trailing write
				l.logger.Warn().
					Err(parseErr).
					Str("func", "EventLog.load").
					Int("line", lineNo).
					Int64("offset", offset).
					Msg("discarding partial trailing record")
				if err := f.Truncate(offset); err != nil {
					return &models.StorageError{Op: "truncate", Path: l.path, Err: err}
				}
				break
			}
			return &models.IntegrityError{Source: l.path, Line: lineNo, Reason: "malformed record", Err: parseErr}
		}

		if _, dup := l.index[ev.ID]; dup {
			l.logger.Warn().
				Str("func", "EventLog.load").
				Str("event_id", ev.ID).
				Int("line", lineNo).
				Msg("duplicate event record ignored")
		} else {
			needsSort = l.insert(ev) || needsSort
		}

		offset += int64(len(line))
		if !complete {
			terminated = false
			break
		}
	}

	if !terminated {
		// the last record parsed but lost its newline
		if _, err := f.WriteAt([]byte{'\n'}, offset); err != nil {
			return &models.StorageError{Op: "terminate record", Path: l.path, Err: err}
		}
		offset++
	}

	if needsSort {
		l.resort()
	}
	l.size = offset
	return nil
}

func decodeRecord(record []byte) (models.Event, error) {
	var ev models.Event
	if err := json.Unmarshal(record, &ev); err != nil {
		return models.Event{}, err
	}
	if err := ev.Validate(); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// insert adds ev to the in-memory state and reports whether the causal order
// of events must be rebuilt. Appending at the end is only valid if no held
// event can causally follow ev, which is guaranteed when the running clock
// has not yet seen ev's origin counter.
func (l *EventLog) insert(ev models.Event) bool {
	outOfOrder := l.clock.Get(ev.OriginDevice) >= ev.Clock.Get(ev.OriginDevice)

	l.index[ev.ID] = len(l.events)
	l.events = append(l.events, ev)
	l.clock = vclock.Merge(l.clock, ev.Clock)

	return outOfOrder
}

func (l *EventLog) resort() {
	l.events = vclock.SortCausally(l.events)
	for i, ev := range l.events {
		l.index[ev.ID] = i
	}
}

// write appends data durably. On failure the file is truncated back to the
// last durable size so no partial record survives.
func (l *EventLog) write(op string, data []byte) error {
	n, err := l.file.Write(data)
	if err == nil {
		err = l.file.Sync()
	}
	if err != nil {
		if truncErr := l.file.Truncate(l.size); truncErr != nil {
			l.logger.Err(truncErr).
				Str("func", "EventLog.write").
				Int64("size", l.size).
				Msg("failed to roll back partial write")
		}
		return &models.StorageError{Op: op, Path: l.path, Err: err}
	}
	l.size += int64(n)
	return nil
}

// Append stamps payload as a new local event: the local device's clock
// component is incremented, the event gets a UUID v7 and the current wall
// clock, and is persisted before the running clock advances.
func (l *EventLog) Append(ctx context.Context, payload models.Payload) (models.Event, error) {
	if err := ctx.Err(); err != nil {
		return models.Event{}, err
	}
	if payload == nil || !payload.Kind().Valid() || payload.DocumentID() == "" {
		return models.Event{}, ErrInvalidPayload
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return models.Event{}, ErrClosed
	}

	device := l.identity.DeviceID
	ev := models.Event{
		ID:           l.ids.Generate(),
		Kind:         payload.Kind(),
		OriginDevice: device,
		Timestamp:    l.now().UTC().Round(0),
		Clock:        vclock.Increment(l.clock, device),
		Payload:      payload,
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return models.Event{}, fmt.Errorf("marshal event: %w", err)
	}
	if err := l.write("append", append(line, '\n')); err != nil {
		l.logger.Err(err).
			Str("func", "EventLog.Append").
			Str("kind", string(ev.Kind)).
			Str("document_id", ev.DocumentID()).
			Msg("append failed, clock not advanced")
		return models.Event{}, err
	}

	l.insert(ev)

	l.logger.Debug().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("document_id", ev.DocumentID()).
		Str("clock", ev.Clock.String()).
		Msg("event appended")

	return ev, nil
}

// MergeRemote absorbs events produced elsewhere. Events already present,
// or repeated within the batch, are dropped; the rest are persisted with
// their original clocks in a single write and folded into the running clock.
// The newly absorbed subset is returned in causal order.
//
// The batch is all-or-nothing: an invalid event rejects it with a
// *models.IntegrityError and nothing is written.
func (l *EventLog) MergeRemote(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, &models.IntegrityError{Source: "remote batch", Line: i + 1, Reason: "invalid event", Err: err}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	seen := make(map[string]struct{}, len(events))
	fresh := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if _, ok := l.index[ev.ID]; ok {
			continue
		}
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		seen[ev.ID] = struct{}{}
		fresh = append(fresh, ev)
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	fresh = vclock.SortCausally(fresh)

	var buf bytes.Buffer
	for _, ev := range fresh {
		line, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("marshal event %s: %w", ev.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := l.write("merge", buf.Bytes()); err != nil {
		l.logger.Err(err).
			Str("func", "EventLog.MergeRemote").
			Int("events", len(fresh)).
			Msg("merge failed, nothing absorbed")
		return nil, err
	}

	needsSort := false
	for _, ev := range fresh {
		needsSort = l.insert(ev) || needsSort
	}
	if needsSort {
		l.resort()
	}

	l.logger.Debug().
		Int("received", len(events)).
		Int("absorbed", len(fresh)).
		Str("clock", l.clock.String()).
		Msg("remote events merged")

	return fresh, nil
}

// Reset truncates the log. The identity is kept and so is the local
// device's own clock component, so counters issued after a reset never
// repeat ones peers have already seen.
func (l *EventLog) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.file.Truncate(0); err != nil {
		return &models.StorageError{Op: "reset", Path: l.path, Err: err}
	}
	if err := l.file.Sync(); err != nil {
		return &models.StorageError{Op: "reset", Path: l.path, Err: err}
	}

	own := l.clock.Get(l.identity.DeviceID)
	l.size = 0
	l.events = nil
	l.index = make(map[string]int)
	l.clock = vclock.New()
	if own > 0 {
		l.clock[l.identity.DeviceID] = own
	}

	l.logger.Warn().Str("func", "EventLog.Reset").Msg("event log reset")
	return nil
}

// Close releases the append handle. Further mutations return ErrClosed.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.file.Close(); err != nil {
		return &models.StorageError{Op: "close", Path: l.path, Err: err}
	}
	return nil
}
