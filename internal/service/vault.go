// Package service ties one vault together: the event log, the replay engine
// with its stores, the peer and shared-folder transports and their
// background workers.
//
// Local mutations append an event, apply it, then broadcast it. Remote
// events enter through Absorb, which merges them into the log and applies
// the new ones.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/eventlog"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/peer"
	"github.com/MKhiriev/go-vault-sync/internal/replay"
	"github.com/MKhiriev/go-vault-sync/internal/sharedfolder"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/internal/workers"
	"github.com/MKhiriev/go-vault-sync/models"
)

// Vault is one open vault. It implements peer.Replica and
// sharedfolder.Replica.
type Vault struct {
	cfg *config.StructuredConfig

	events   *eventlog.EventLog
	storages *store.Storages
	engine   *replay.Engine

	peers      *peer.Manager
	folder     *sharedfolder.Transport
	transports []Transport
	workers    *workers.Workers

	observer Observer
	build    models.BuildInfo
	logger   *logger.Logger

	mu     sync.RWMutex
	closed bool
}

type options struct {
	observer   Observer
	dialer     peer.Dialer
	build      models.BuildInfo
	logOpts    []eventlog.Option
	engineOpts []replay.Option
}

type Option func(*options)

func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithDialer lets the peer transport dial the configured addresses.
func WithDialer(d peer.Dialer) Option {
	return func(opts *options) { opts.dialer = d }
}

func WithBuildInfo(b models.BuildInfo) Option {
	return func(opts *options) { opts.build = b }
}

func WithEventLogOptions(o ...eventlog.Option) Option {
	return func(opts *options) { opts.logOpts = append(opts.logOpts, o...) }
}

func WithEngineOptions(o ...replay.Option) Option {
	return func(opts *options) { opts.engineOpts = append(opts.engineOpts, o...) }
}

// Open loads the event log and the stores of the vault described by cfg,
// applies every event the state database has not seen yet and prepares the
// enabled transports. Background workers start with Start.
func Open(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger, opts ...Option) (*Vault, error) {
	if cfg.Vault.Path == "" || cfg.Vault.StateDir == "" {
		return nil, ErrVaultNotReady
	}

	o := &options{observer: ObserverFuncs{}}
	for _, opt := range opts {
		opt(o)
	}
	if cfg.Vault.ID != "" {
		o.logOpts = append([]eventlog.Option{eventlog.WithVaultID(cfg.Vault.ID)}, o.logOpts...)
	}

	events, err := eventlog.Open(ctx, cfg.Vault.StateDir, log, o.logOpts...)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	storages, err := store.NewStorages(ctx, cfg, log)
	if err != nil {
		events.Close()
		return nil, fmt.Errorf("open storages: %w", err)
	}

	v := &Vault{
		cfg:      cfg,
		events:   events,
		storages: storages,
		engine:   replay.NewEngine(storages.Documents, storages.State, log, o.engineOpts...),
		observer: o.observer,
		build:    o.build,
		logger:   log,
	}

	res := v.engine.ApplyEvents(ctx, events.Events())
	v.notify(res)
	if res.Applied > 0 || res.HasErrors() {
		log.Info().
			Str("func", "Open").
			Int("applied", res.Applied).
			Int("errors", len(res.Errors)).
			Msg("caught up state with event log")
	}

	v.workers = workers.NewWorkers(log)
	if !cfg.Peer.Disabled {
		managerOpts := []peer.ManagerOption{peer.WithStateObserver(v.observer.OnPeerStateChanged)}
		if o.dialer != nil {
			managerOpts = append(managerOpts, peer.WithDialer(o.dialer))
		}
		v.peers = peer.NewManager(v, cfg.Peer, log, managerOpts...)
		v.transports = append(v.transports, &peerTransport{
			manager: v.peers,
			addrs:   cfg.Peer.Addresses,
			dial:    o.dialer != nil,
		})
		if o.dialer != nil && len(cfg.Peer.Addresses) > 0 {
			v.workers.Add(workers.NewPeerConnectorJob(v.peers, cfg.Peer.Addresses, cfg.Peer.RedialInterval, log))
		}
	}
	if !cfg.SharedFolder.Disabled {
		v.folder = sharedfolder.New(v, cfg.SharedFolder, log)
		v.transports = append(v.transports, &folderTransport{folder: v.folder})
		v.workers.Add(workers.NewPresenceJob(v.folder, cfg.SharedFolder.PresenceInterval, log))
		v.workers.Add(workers.NewSharedFolderSyncJob(v.folder, cfg.SharedFolder.SyncInterval, log))
	}

	id := events.Identity()
	log.Info().
		Str("func", "Open").
		Str("device_id", id.DeviceID).
		Str("vault_id", id.VaultID).
		Int("events", events.Count()).
		Int("transports", len(v.transports)).
		Msg("vault opened")
	return v, nil
}

// Start launches the background workers.
func (v *Vault) Start(ctx context.Context) {
	v.workers.Start(ctx)
}

// Close stops the workers, says goodbye to peers and releases the stores
// and the log. Errors are joined; Close is idempotent.
func (v *Vault) Close(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	v.workers.Stop()

	var errs []error
	for _, t := range v.transports {
		if err := t.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s transport: %w", t.Name(), err))
		}
	}
	if err := v.storages.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storages: %w", err))
	}
	if err := v.events.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close event log: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		v.logger.Err(err).Str("func", "Vault.Close").Msg("error closing vault")
	}
	return err
}

func (v *Vault) isClosed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

func (v *Vault) Identity() models.Identity {
	return v.events.Identity()
}

func (v *Vault) DeviceName() string {
	return v.cfg.Vault.DeviceName
}

func (v *Vault) Clock() vclock.VectorClock {
	return v.events.Clock()
}

// VectorClock is the running clock of the vault.
func (v *Vault) VectorClock() vclock.VectorClock {
	return v.events.Clock()
}

func (v *Vault) Count() int {
	return v.events.Count()
}

// EventCount is the number of events in the log.
func (v *Vault) EventCount() int {
	return v.events.Count()
}

func (v *Vault) Events() []models.Event {
	return v.events.Events()
}

func (v *Vault) EventsAfter(clock vclock.VectorClock) []models.Event {
	return v.events.EventsAfter(clock)
}

// Absorb merges remote events into the log and applies those that were new.
// Events that fail to apply stay in the log and are retried the next time
// the vault opens.
func (v *Vault) Absorb(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if v.isClosed() {
		return nil, ErrVaultClosed
	}

	added, err := v.events.MergeRemote(ctx, events)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	res := v.engine.ApplyEvents(ctx, added)
	v.notify(res)
	if res.HasErrors() {
		v.logger.Warn().
			Str("func", "Vault.Absorb").
			Int("absorbed", len(added)).
			Int("failed", len(res.Errors)).
			Msg("some absorbed events failed to apply")
	}
	return added, nil
}

func (v *Vault) notify(res replay.Result) {
	if len(res.AppliedEvents) > 0 {
		v.observer.OnEventsApplied(res.AppliedEvents)
	}
	for _, c := range res.Conflicts {
		v.observer.OnConflictDetected(c)
	}
}
