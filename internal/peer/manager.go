// Package peer implements the direct replication protocol: a per-connection
// session state machine over an abstract Channel and a Manager owning the
// set of active peers.
package peer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

// Manager tracks the active sessions of one vault.
type Manager struct {
	local  Replica
	cfg    config.Peer
	dialer Dialer
	now    func() time.Time
	logger *logger.Logger

	onStateChanged func(models.PeerInfo)

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.RWMutex
	sessions map[string]*Session
	dialing  map[string]struct{}
	known    map[string]models.PeerInfo
	closed   bool
}

type ManagerOption func(*Manager)

// WithDialer enables Dial and ConnectAll.
func WithDialer(d Dialer) ManagerOption {
	return func(m *Manager) { m.dialer = d }
}

// WithStateObserver registers a callback for peer state transitions. It is
// called synchronously from session goroutines.
func WithStateObserver(fn func(models.PeerInfo)) ManagerOption {
	return func(m *Manager) { m.onStateChanged = fn }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(local Replica, cfg config.Peer, log *logger.Logger, opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		local:    local,
		cfg:      cfg,
		now:      time.Now,
		logger:   log,
		baseCtx:  ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
		dialing:  make(map[string]struct{}),
		known:    make(map[string]models.PeerInfo),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) newSession(ch Channel, initiator bool) *Session {
	return newSession(ch, m.local, initiator, m.cfg, sessionHooks{
		identified:   m.register,
		stateChanged: m.stateChanged,
	}, m.now, m.logger)
}

// Accept serves an inbound connection as responder and blocks until the
// session ends.
func (m *Manager) Accept(ctx context.Context, ch Channel) error {
	return m.run(ctx, ch, false)
}

// Connect serves an outbound connection as initiator and blocks until the
// session ends.
func (m *Manager) Connect(ctx context.Context, ch Channel) error {
	return m.run(ctx, ch, true)
}

func (m *Manager) run(ctx context.Context, ch Channel, initiator bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		ch.Close()
		return ErrManagerClosed
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	// sessions also end when the manager closes
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.baseCtx, cancel)
	defer stop()

	s := m.newSession(ch, initiator)
	err := s.Run(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Str("func", "Manager.run").Str("peer", s.PeerID()).
			Str("address", ch.RemoteAddr()).Msg("peer session ended with error")
	}
	return err
}

// Dial opens a channel to addr and serves it in the background. Dialing an
// address that already has a live outbound session is a no-op.
func (m *Manager) Dial(ctx context.Context, addr string) error {
	if m.dialer == nil {
		return ErrNoDialer
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if _, busy := m.dialing[addr]; busy {
		m.mu.Unlock()
		return nil
	}
	m.dialing[addr] = struct{}{}
	m.mu.Unlock()

	release := func() {
		m.mu.Lock()
		delete(m.dialing, addr)
		m.mu.Unlock()
	}

	if m.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.DialTimeout)
		defer cancel()
	}
	ch, err := m.dialer.Dial(ctx, addr)
	if err != nil {
		release()
		return err
	}

	go func() {
		defer release()
		_ = m.Connect(m.baseCtx, ch)
	}()
	return nil
}

// ConnectAll dials every address without a live session. Failures are
// logged and joined.
func (m *Manager) ConnectAll(ctx context.Context, addrs []string) error {
	var errs []error
	for _, addr := range addrs {
		if err := m.Dial(ctx, addr); err != nil {
			m.logger.Warn().Err(err).Str("func", "Manager.ConnectAll").Str("address", addr).Msg("error dialing peer")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) register(s *Session) error {
	id := s.PeerID()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrManagerClosed
	}
	if _, ok := m.sessions[id]; ok {
		return ErrDuplicatePeer
	}
	m.sessions[id] = s
	return nil
}

func (m *Manager) stateChanged(s *Session, info models.PeerInfo) {
	m.mu.Lock()
	current, active := m.sessions[info.ID]
	if current == s || !active {
		m.known[info.ID] = info
	}
	if current == s && (info.State == models.PeerDisconnected || info.State == models.PeerError) {
		delete(m.sessions, info.ID)
	}
	m.mu.Unlock()

	if m.onStateChanged != nil {
		m.onStateChanged(info)
	}
}

func (m *Manager) active() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Broadcast sends freshly appended local events to every synced peer.
func (m *Manager) Broadcast(ctx context.Context, events []models.Event) {
	for _, s := range m.active() {
		if err := s.Broadcast(ctx, events); err != nil {
			m.logger.Warn().Err(err).Str("func", "Manager.Broadcast").Str("peer", s.PeerID()).Msg("error broadcasting events")
		}
	}
}

// TriggerExchange starts a clock exchange with every connected peer.
func (m *Manager) TriggerExchange(ctx context.Context) {
	for _, s := range m.active() {
		if s.State() == models.PeerSyncing {
			continue
		}
		if err := s.Exchange(ctx); err != nil {
			m.logger.Warn().Err(err).Str("func", "Manager.TriggerExchange").Str("peer", s.PeerID()).Msg("error starting exchange")
		}
	}
}

// Peers returns every peer seen since start, sorted by id. Peers that left
// keep their last state.
func (m *Manager) Peers() []models.PeerInfo {
	m.mu.RLock()
	out := make([]models.PeerInfo, 0, len(m.known))
	for id, info := range m.known {
		if s, ok := m.sessions[id]; ok {
			info = s.Info()
		}
		out = append(out, info)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close sends GOODBYE to every active peer within the shutdown timeout,
// then ends all sessions. Peers that fail to say goodbye are logged.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if m.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ShutdownTimeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	for _, s := range m.active() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Goodbye(ctx); err != nil {
				m.logger.Warn().Err(err).Str("func", "Manager.Close").Str("peer", s.PeerID()).Msg("peer did not get goodbye")
			}
			s.ch.Close()
		}()
	}
	wg.Wait()

	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		m.logger.Warn().Str("func", "Manager.Close").Msg("peer sessions did not stop in time")
		return ctx.Err()
	}
}
