// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sharedfolder replicates a vault through a folder that some other
// tool (a cloud drive, syncthing, a network share) keeps in sync between
// devices. Each device owns two files under <root>/sync: its presence record
// and an NDJSON export of its whole event log.
package sharedfolder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	presenceFileMode = 0o644

	presenceMaxRetries = 3
	presenceRetryBase  = 50 * time.Millisecond
)

// Replica is the local vault as seen by the transport.
type Replica interface {
	Identity() models.Identity
	DeviceName() string
	Clock() vclock.VectorClock
	Count() int
	// Events returns every event in causal order.
	Events() []models.Event
	// Absorb merges remote events into the log and applies the new ones.
	Absorb(ctx context.Context, events []models.Event) ([]models.Event, error)
}

// ImportResult summarizes one Import pass.
type ImportResult struct {
	// Imported counts the new events absorbed per device.
	Imported map[string]int
	// Failed holds the error of each device skipped this cycle.
	Failed map[string]error
}

// Total is the number of events absorbed across devices.
func (r ImportResult) Total() int {
	n := 0
	for _, c := range r.Imported {
		n += c
	}
	return n
}

// Transport drives presence, export and import for one vault.
type Transport struct {
	layout layout
	local  Replica
	cfg    config.SharedFolder
	now    func() time.Time
	logger *logger.Logger

	mu         sync.Mutex
	lastExport vclock.VectorClock
	peers      []models.PeerPresence
}

type Option func(*Transport)

func WithClock(now func() time.Time) Option {
	return func(t *Transport) { t.now = now }
}

func New(local Replica, cfg config.SharedFolder, log *logger.Logger, opts ...Option) *Transport {
	t := &Transport{
		layout: layout{root: cfg.Root},
		local:  local,
		cfg:    cfg,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// UpdatePresence overwrites the local presence record.
func (t *Transport) UpdatePresence(ctx context.Context) error {
	id := t.local.Identity()
	rec := models.DevicePresence{
		DeviceID:   id.DeviceID,
		DeviceName: t.local.DeviceName(),
		VaultID:    id.VaultID,
		Clock:      t.local.Clock(),
		LastSeen:   t.now().UTC(),
		EventCount: t.local.Count(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal presence: %w", err)
	}

	path := t.layout.presence(id.DeviceID)
	backoff := retry.WithMaxRetries(presenceMaxRetries, retry.NewExponential(presenceRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if werr := utils.WriteFileAtomic(path, data, presenceFileMode); werr != nil {
			t.logger.Warn().Err(werr).
				Str("func", "Transport.UpdatePresence").
				Str("path", path).
				Msg("presence write failed, retrying")
			return retry.RetryableError(werr)
		}
		return nil
	})
	if err != nil {
		return &models.StorageError{Op: "write presence", Path: path, Err: err}
	}
	return nil
}

// ScanPresence reads the presence records of the other devices of this
// vault. Malformed records and other vaults are skipped.
func (t *Transport) ScanPresence(ctx context.Context) ([]models.PeerPresence, error) {
	dir := t.layout.presenceDir()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		t.setPeers(nil)
		return []models.PeerPresence{}, nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "scan presence", Path: dir, Err: err}
	}

	id := t.local.Identity()
	local := t.local.Clock()
	now := t.now()

	peers := make([]models.PeerPresence, 0, len(entries))
	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || entry.Name() == id.DeviceID || entry.Name()[0] == '.' {
			continue
		}

		path := t.layout.presence(entry.Name())
		rec, err := readPresence(path)
		if err != nil {
			t.logger.Warn().Err(err).
				Str("func", "Transport.ScanPresence").
				Str("path", path).
				Msg("skipping presence record")
			continue
		}
		if rec.VaultID != id.VaultID || rec.DeviceID == id.DeviceID {
			continue
		}
		peers = append(peers, evaluate(rec, local, now, t.cfg.StaleAfter))
	}

	sort.Slice(peers, func(i, j int) bool { return peers[i].DeviceID < peers[j].DeviceID })
	t.setPeers(peers)
	return peers, nil
}

func evaluate(rec models.DevicePresence, local vclock.VectorClock, now time.Time, staleAfter time.Duration) models.PeerPresence {
	ord := vclock.Compare(rec.Clock, local)
	return models.PeerPresence{
		DevicePresence: rec,
		Online:         now.Sub(rec.LastSeen) <= staleAfter,
		NeedsSync:      ord == vclock.Before || ord == vclock.Concurrent,
		Ahead:          rec.Clock.HasNewerThan(local),
	}
}

func readPresence(path string) (models.DevicePresence, error) {
	var rec models.DevicePresence
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err = json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrInvalidPresence, err)
	}
	if rec.DeviceID == "" || rec.VaultID == "" {
		return rec, fmt.Errorf("%w: missing device or vault id", ErrInvalidPresence)
	}
	return rec, nil
}

// Export writes the whole local log to the device's export file. It reports
// false when the clock is unchanged since the last export and the file is
// still there.
func (t *Transport) Export(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	clock := t.local.Clock()
	path := t.layout.export(t.local.Identity().DeviceID)

	t.mu.Lock()
	unchanged := t.lastExport != nil && vclock.Compare(clock, t.lastExport) == vclock.Equal
	t.mu.Unlock()
	if unchanged {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	events := t.local.Events()
	if err := writeExport(path, events, t.cfg.Compress); err != nil {
		return false, err
	}

	t.mu.Lock()
	t.lastExport = vclock.Clone(clock)
	t.mu.Unlock()

	t.logger.Debug().
		Str("func", "Transport.Export").
		Int("events", len(events)).
		Bool("compressed", t.cfg.Compress).
		Msg("export written")
	return true, nil
}

// Import absorbs the exports of peers that need a sync or are ahead of us.
// A device without an export is skipped silently, any other failure is
// logged and recorded in the result.
func (t *Transport) Import(ctx context.Context, peers []models.PeerPresence) (ImportResult, error) {
	res := ImportResult{Imported: make(map[string]int), Failed: make(map[string]error)}

	for _, p := range peers {
		if !p.NeedsSync && !p.Ahead {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path := t.layout.export(p.DeviceID)
		events, err := readExport(path)
		if errors.Is(err, ErrNoExport) {
			continue
		}
		if err == nil {
			var added []models.Event
			added, err = t.local.Absorb(ctx, events)
			if err == nil {
				res.Imported[p.DeviceID] = len(added)
				if len(added) > 0 {
					t.logger.Info().
						Str("func", "Transport.Import").
						Str("device_id", p.DeviceID).
						Int("events", len(added)).
						Msg("imported events")
				}
				continue
			}
		}

		t.logger.Err(err).
			Str("func", "Transport.Import").
			Str("device_id", p.DeviceID).
			Str("path", path).
			Msg("import failed, skipping device this cycle")
		res.Failed[p.DeviceID] = err
	}
	return res, nil
}

// RunCycle performs one presence update, scan, export and import. Steps run
// even when an earlier one failed; the errors are joined.
func (t *Transport) RunCycle(ctx context.Context) (ImportResult, error) {
	var errs []error
	if err := t.UpdatePresence(ctx); err != nil {
		errs = append(errs, err)
	}
	peers, err := t.ScanPresence(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	if _, err = t.Export(ctx); err != nil {
		errs = append(errs, err)
	}
	res, err := t.Import(ctx, peers)
	if err != nil {
		errs = append(errs, err)
	}
	return res, errors.Join(errs...)
}

// Peers returns the result of the last scan.
func (t *Transport) Peers() []models.PeerPresence {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.PeerPresence, len(t.peers))
	copy(out, t.peers)
	return out
}

func (t *Transport) setPeers(peers []models.PeerPresence) {
	t.mu.Lock()
	t.peers = peers
	t.mu.Unlock()
}
