// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package peer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	defaultPageSize = 500
	inboundBuffer   = 64
)

type inbound struct {
	msg Message
	err error
}

type sessionHooks struct {
	// identified registers the session once the peer id is known. An error
	// rejects the handshake.
	identified func(s *Session) error
	// stateChanged is called after every state transition of an identified
	// session.
	stateChanged func(s *Session, info models.PeerInfo)
}

// Session runs the replication protocol over one channel. The initiator
// sends HELLO and the first CLOCK_EXCHANGE; everything after the handshake
// is symmetric.
type Session struct {
	ch        Channel
	local     Replica
	initiator bool
	cfg       config.Peer
	hooks     sessionHooks
	now       func() time.Time
	logger    *logger.Logger

	sendMu sync.Mutex

	mu          sync.Mutex
	info        models.PeerInfo
	lastContact time.Time
	pulling     bool
	timedOut    bool
}

func newSession(ch Channel, local Replica, initiator bool, cfg config.Peer, hooks sessionHooks, now func() time.Time, log *logger.Logger) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.SuspicionMultiplier <= 0 {
		cfg.SuspicionMultiplier = 3
	}
	return &Session{
		ch:        ch,
		local:     local,
		initiator: initiator,
		cfg:       cfg,
		hooks:     hooks,
		now:       now,
		logger:    log,
		info: models.PeerInfo{
			Address: ch.RemoteAddr(),
			State:   models.PeerDisconnected,
		},
	}
}

// Info returns a snapshot of the peer state.
func (s *Session) Info() models.PeerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() models.PeerInfo {
	info := s.info
	info.LastKnownClock = vclock.Clone(s.info.LastKnownClock)
	return info
}

func (s *Session) PeerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info.ID
}

func (s *Session) State() models.PeerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info.State
}

func (s *Session) setState(state models.PeerState, cause error) {
	s.mu.Lock()
	if s.info.State == state && cause == nil {
		s.mu.Unlock()
		return
	}
	s.info.State = state
	if cause != nil {
		s.info.LastError = cause.Error()
	}
	info := s.snapshot()
	s.mu.Unlock()

	s.logger.Debug().Str("func", "Session.setState").Str("peer", info.ID).
		Str("state", string(state)).Msg("peer state changed")
	if info.ID != "" && s.hooks.stateChanged != nil {
		s.hooks.stateChanged(s, info)
	}
}

// Run performs the handshake and serves the connection until GOODBYE, a
// protocol error, a heartbeat timeout, ctx cancellation or channel closure.
// The channel is closed on return. A clean end returns nil.
func (s *Session) Run(ctx context.Context) error {
	defer s.ch.Close()

	s.setState(models.PeerConnecting, nil)
	if err := s.handshake(ctx); err != nil {
		s.setState(models.PeerError, err)
		return err
	}
	s.setState(models.PeerConnected, nil)

	loopCtx, cancel := context.WithCancel(ctx)
	frames := make(chan inbound, inboundBuffer)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.heartbeat(loopCtx, cancel)
	}()
	go func() {
		defer wg.Done()
		s.receive(loopCtx, frames)
	}()

	err := s.serve(loopCtx, frames)
	cancel()
	wg.Wait()

	if s.isTimedOut() {
		err = ErrPeerTimeout
	}
	switch {
	case err == nil, errors.Is(err, ErrChannelClosed), errors.Is(err, context.Canceled):
		s.setState(models.PeerDisconnected, nil)
		return nil
	case errors.Is(err, ErrPeerTimeout):
		s.setState(models.PeerDisconnected, err)
		return err
	default:
		s.setState(models.PeerError, err)
		return err
	}
}

func (s *Session) serve(ctx context.Context, frames <-chan inbound) error {
	if s.initiator {
		if err := s.Exchange(ctx); err != nil {
			return err
		}
	}

	for in := range frames {
		if in.err != nil {
			if s.isTimedOut() {
				return ErrPeerTimeout
			}
			if errors.Is(in.err, ErrInvalidMessage) {
				return s.protocolError("malformed frame", in.err)
			}
			return in.err
		}

		done, err := s.handle(ctx, in.msg)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	if s.isTimedOut() {
		return ErrPeerTimeout
	}
	return ctx.Err()
}

// receive reads frames off the channel and records contact as each one
// arrives, so a peer stays alive while serve is busy handling a large page.
// A heartbeat is dropped instead of queued when serve is behind. frames is
// closed on return.
func (s *Session) receive(ctx context.Context, frames chan<- inbound) {
	defer close(frames)
	for {
		msg, err := s.ch.Receive(ctx)
		if err == nil {
			s.touch(msg)
			if msg.Type == MsgHeartbeat {
				select {
				case frames <- inbound{msg: msg}:
				default:
				}
				continue
			}
		}

		select {
		case frames <- inbound{msg: msg, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) handshake(ctx context.Context) error {
	if s.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DialTimeout)
		defer cancel()
	}
	if s.initiator {
		return s.sendHello(ctx)
	}
	return s.acceptHello(ctx)
}

func (s *Session) sendHello(ctx context.Context) error {
	id := s.local.Identity()
	hello := s.message(MsgHello)
	hello.VaultID = id.VaultID
	hello.DeviceName = s.local.DeviceName()
	if err := s.send(ctx, hello); err != nil {
		return err
	}

	ack, err := s.ch.Receive(ctx)
	if err != nil {
		return err
	}
	if ack.Type != MsgHelloAck {
		return s.protocolError("expected HELLO_ACK, got "+string(ack.Type), ErrUnexpectedMessage)
	}
	s.identify(ack)
	if !ack.Accepted {
		return s.protocolError("rejected: "+ack.Reason, ErrHandshakeRejected)
	}
	if ack.From == id.DeviceID {
		return s.protocolError("peer has our device id", ErrSelfConnection)
	}
	if ack.VaultID != "" && ack.VaultID != id.VaultID {
		return s.protocolError("peer belongs to vault "+ack.VaultID, ErrVaultMismatch)
	}
	if s.hooks.identified != nil {
		if err = s.hooks.identified(s); err != nil {
			return s.protocolError("register peer", err)
		}
	}
	return nil
}

func (s *Session) acceptHello(ctx context.Context) error {
	id := s.local.Identity()
	hello, err := s.ch.Receive(ctx)
	if err != nil {
		return err
	}
	if hello.Type != MsgHello {
		return s.protocolError("expected HELLO, got "+string(hello.Type), ErrUnexpectedMessage)
	}
	s.identify(hello)

	var reject error
	switch {
	case hello.VaultID != id.VaultID:
		reject = ErrVaultMismatch
	case hello.From == id.DeviceID:
		reject = ErrSelfConnection
	case s.hooks.identified != nil:
		reject = s.hooks.identified(s)
	}

	ack := s.message(MsgHelloAck)
	ack.VaultID = id.VaultID
	ack.DeviceName = s.local.DeviceName()
	ack.Accepted = reject == nil
	if reject != nil {
		ack.Reason = reject.Error()
	}
	if err = s.send(ctx, ack); err != nil {
		return err
	}
	if reject != nil {
		return s.protocolError("handshake rejected", reject)
	}
	return nil
}

func (s *Session) identify(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info.ID = msg.From
	s.info.DisplayName = msg.DeviceName
	s.info.LastKnownClock = vclock.Clone(msg.Clock)
	s.info.LastSeen = s.now()
	s.lastContact = s.now()
}

func (s *Session) touch(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info.LastKnownClock = vclock.Clone(msg.Clock)
	s.info.LastSeen = s.now()
	s.lastContact = s.now()
}

func (s *Session) isTimedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timedOut
}

func (s *Session) protocolError(reason string, err error) error {
	return &models.ProtocolError{Peer: s.PeerID(), Reason: reason, Err: err}
}

func (s *Session) message(t MessageType) Message {
	return Message{Type: t, From: s.local.Identity().DeviceID, Clock: s.local.Clock()}
}

func (s *Session) send(ctx context.Context, msg Message) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.ch.Send(ctx, msg)
}

func (s *Session) handle(ctx context.Context, msg Message) (bool, error) {
	switch msg.Type {
	case MsgClockExchange:
		return false, s.onClockExchange(ctx, msg)
	case MsgEventsRequest:
		return false, s.onEventsRequest(ctx, msg)
	case MsgEventsResponse:
		return false, s.onEventsResponse(ctx, msg)
	case MsgEventsAck:
		return false, s.reconcile(ctx, msg.Clock)
	case MsgEventBroadcast:
		return false, s.onBroadcast(ctx, msg)
	case MsgHeartbeat:
		return false, s.onHeartbeat(ctx, msg)
	case MsgGoodbye:
		s.logger.Info().Str("func", "Session.handle").Str("peer", msg.From).Msg("peer said goodbye")
		return true, nil
	default:
		return false, s.protocolError("unexpected "+string(msg.Type), ErrUnexpectedMessage)
	}
}

// Exchange starts a fresh round by sending our clock.
func (s *Session) Exchange(ctx context.Context) error {
	s.setState(models.PeerSyncing, nil)
	return s.send(ctx, s.message(MsgClockExchange))
}

func (s *Session) onClockExchange(ctx context.Context, msg Message) error {
	s.setState(models.PeerSyncing, nil)
	if vclock.Compare(s.local.Clock(), msg.Clock) == vclock.Equal {
		s.setState(models.PeerSynced, nil)
		return s.send(ctx, s.message(MsgEventsAck))
	}
	return s.reconcile(ctx, msg.Clock)
}

// reconcile decides the next step from the peer's clock: nothing when equal,
// push what the peer lacks when we are ahead, pull otherwise.
func (s *Session) reconcile(ctx context.Context, peerClock vclock.VectorClock) error {
	local := s.local.Clock()
	switch vclock.Compare(local, peerClock) {
	case vclock.Equal:
		s.setState(models.PeerSynced, nil)
		return nil
	case vclock.After:
		return s.push(ctx, peerClock)
	default:
		return s.request(ctx, local)
	}
}

func (s *Session) request(ctx context.Context, after vclock.VectorClock) error {
	s.mu.Lock()
	if s.pulling {
		s.mu.Unlock()
		return nil
	}
	s.pulling = true
	s.mu.Unlock()

	s.setState(models.PeerSyncing, nil)
	req := s.message(MsgEventsRequest)
	req.AfterClock = after
	return s.send(ctx, req)
}

// push sends every event the peer lacks, unsolicited, in pages. The last
// page is marked complete, so an empty push is a single complete page.
func (s *Session) push(ctx context.Context, peerClock vclock.VectorClock) error {
	s.setState(models.PeerSyncing, nil)
	events := s.local.EventsAfter(peerClock)

	for start := 0; ; start += s.cfg.PageSize {
		end := min(start+s.cfg.PageSize, len(events))
		page := s.message(MsgEventsResponse)
		page.Events = events[start:end]
		page.Complete = end == len(events)
		if err := s.send(ctx, page); err != nil {
			return err
		}
		s.countSent(len(page.Events))
		if page.Complete {
			return nil
		}
	}
}

// onEventsRequest answers with one page: a causal prefix of the missing
// events. The requester re-requests from its advanced clock.
func (s *Session) onEventsRequest(ctx context.Context, msg Message) error {
	s.setState(models.PeerSyncing, nil)
	events := s.local.EventsAfter(msg.AfterClock)

	resp := s.message(MsgEventsResponse)
	resp.Complete = len(events) <= s.cfg.PageSize
	if !resp.Complete {
		events = events[:s.cfg.PageSize]
	}
	resp.Events = events
	if err := s.send(ctx, resp); err != nil {
		return err
	}
	s.countSent(len(events))
	return nil
}

func (s *Session) onEventsResponse(ctx context.Context, msg Message) error {
	if err := s.absorb(ctx, msg.Events); err != nil {
		return err
	}

	s.mu.Lock()
	pulling := s.pulling
	if msg.Complete {
		s.pulling = false
	}
	s.mu.Unlock()

	if !msg.Complete {
		if !pulling {
			// unsolicited push, more pages follow
			return nil
		}
		req := s.message(MsgEventsRequest)
		req.AfterClock = req.Clock
		return s.send(ctx, req)
	}

	ack := s.message(MsgEventsAck)
	if err := s.send(ctx, ack); err != nil {
		return err
	}
	if vclock.Compare(ack.Clock, msg.Clock) == vclock.Equal {
		s.setState(models.PeerSynced, nil)
	}
	return nil
}

// onBroadcast absorbs a broadcast event only when every causal predecessor
// is already held; a gap turns into a pull so the running clock never
// claims events we do not have.
func (s *Session) onBroadcast(ctx context.Context, msg Message) error {
	for _, ev := range msg.Events {
		local := s.local.Clock()
		if ev.Clock.Get(ev.OriginDevice) <= local.Get(ev.OriginDevice) {
			continue
		}
		if !deliverable(ev, local) {
			s.logger.Debug().Str("func", "Session.onBroadcast").Str("peer", msg.From).
				Str("event_id", ev.ID).Msg("causal gap, requesting missing events")
			return s.request(ctx, local)
		}
		if err := s.absorb(ctx, []models.Event{ev}); err != nil {
			return err
		}
	}
	return nil
}

func deliverable(ev models.Event, local vclock.VectorClock) bool {
	for device, n := range ev.Clock {
		if device == ev.OriginDevice {
			if n != local.Get(device)+1 {
				return false
			}
			continue
		}
		if n > local.Get(device) {
			return false
		}
	}
	return true
}

func (s *Session) onHeartbeat(ctx context.Context, msg Message) error {
	s.mu.Lock()
	idle := !s.pulling && s.info.State == models.PeerSynced
	s.mu.Unlock()

	if idle && msg.Clock.HasNewerThan(s.local.Clock()) {
		return s.Exchange(ctx)
	}
	return nil
}

func (s *Session) absorb(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	if _, err := s.local.Absorb(ctx, events); err != nil {
		var ie *models.IntegrityError
		if errors.As(err, &ie) {
			return s.protocolError("rejected event batch", err)
		}
		return fmt.Errorf("absorb events from %s: %w", s.PeerID(), err)
	}
	s.mu.Lock()
	s.info.EventsReceived += uint64(len(events))
	s.mu.Unlock()
	return nil
}

func (s *Session) countSent(n int) {
	s.mu.Lock()
	s.info.EventsSent += uint64(n)
	s.mu.Unlock()
}

// Broadcast pushes freshly appended local events. Peers not in the synced
// state are skipped; they catch up on their next exchange.
func (s *Session) Broadcast(ctx context.Context, events []models.Event) error {
	if s.State() != models.PeerSynced || len(events) == 0 {
		return nil
	}
	msg := s.message(MsgEventBroadcast)
	msg.Events = events
	if err := s.send(ctx, msg); err != nil {
		return err
	}
	s.countSent(len(events))
	return nil
}

// Goodbye announces a clean disconnect.
func (s *Session) Goodbye(ctx context.Context) error {
	return s.send(ctx, s.message(MsgGoodbye))
}

// heartbeat sends HEARTBEAT every interval and cancels the session once the
// peer has been silent for SuspicionMultiplier intervals.
func (s *Session) heartbeat(ctx context.Context, cancel context.CancelFunc) {
	interval := s.cfg.HeartbeatInterval
	if interval <= 0 {
		return
	}
	threshold := time.Duration(s.cfg.SuspicionMultiplier) * interval

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			silent := s.now().Sub(s.lastContact)
			if silent > threshold {
				s.timedOut = true
			}
			s.mu.Unlock()

			if silent > threshold {
				s.logger.Warn().Str("func", "Session.heartbeat").Str("peer", s.PeerID()).
					Dur("silent", silent).Msg("peer missed heartbeats, disconnecting")
				cancel()
				return
			}
			if err := s.send(ctx, s.message(MsgHeartbeat)); err != nil {
				s.logger.Debug().Err(err).Str("func", "Session.heartbeat").Msg("error sending heartbeat")
			}
		}
	}
}
