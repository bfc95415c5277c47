package peer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/eventlog"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/vclock"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	waitFor = 3 * time.Second
	tick    = 5 * time.Millisecond
)

// logReplica serves an event log directly; absorbing is a plain merge.
type logReplica struct {
	*eventlog.EventLog
	name string
}

func (r *logReplica) DeviceName() string { return r.name }

func (r *logReplica) Absorb(ctx context.Context, events []models.Event) ([]models.Event, error) {
	return r.MergeRemote(ctx, events)
}

func newReplica(t *testing.T, name, vaultID string) *logReplica {
	t.Helper()
	l, err := eventlog.Open(context.Background(), t.TempDir(), logger.Nop(), eventlog.WithVaultID(vaultID))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return &logReplica{EventLog: l, name: name}
}

func appendDocs(t *testing.T, r *logReplica, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := r.Append(context.Background(), models.DocumentCreated{
			DocID:   fmt.Sprintf("%s-doc-%d", r.name, i),
			Path:    fmt.Sprintf("%s/%d.md", r.name, i),
			Content: "body",
		})
		require.NoError(t, err)
	}
}

func testPeerConfig() config.Peer {
	return config.Peer{
		PageSize:            500,
		SuspicionMultiplier: 3,
		ShutdownTimeout:     time.Second,
		DialTimeout:         time.Second,
	}
}

func newTestManager(t *testing.T, r Replica, cfg config.Peer, opts ...ManagerOption) *Manager {
	t.Helper()
	m := NewManager(r, cfg, logger.Nop(), opts...)
	t.Cleanup(func() { m.Close(context.Background()) })
	return m
}

// connect wires two managers over a pipe: a dials, b accepts.
func connect(a, b *Manager) (chan error, chan error) {
	ca, cb := Pipe()
	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errB <- b.Accept(context.Background(), cb) }()
	go func() { errA <- a.Connect(context.Background(), ca) }()
	return errA, errB
}

func peerState(m *Manager, id string) models.PeerState {
	for _, p := range m.Peers() {
		if p.ID == id {
			return p.State
		}
	}
	return ""
}

func converged(a, b *logReplica) bool {
	return vclock.Compare(a.Clock(), b.Clock()) == vclock.Equal
}

// rawPeer drives one end of a pipe by hand.
type rawPeer struct {
	t     *testing.T
	ch    Channel
	id    string
	vault string
	clock vclock.VectorClock
}

func (p *rawPeer) send(msg Message) {
	p.t.Helper()
	msg.From = p.id
	if msg.Clock == nil {
		msg.Clock = p.clock
	}
	require.NoError(p.t, p.ch.Send(context.Background(), msg))
}

// next returns the next message, skipping heartbeats.
func (p *rawPeer) next() Message {
	p.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	for {
		msg, err := p.ch.Receive(ctx)
		require.NoError(p.t, err)
		if msg.Type != MsgHeartbeat {
			return msg
		}
	}
}

func (p *rawPeer) hello() Message {
	p.t.Helper()
	p.send(Message{Type: MsgHello, VaultID: p.vault, DeviceName: "raw"})
	ack := p.next()
	require.Equal(p.t, MsgHelloAck, ack.Type)
	return ack
}

func rawEvent(origin string, clock vclock.VectorClock, doc string) models.Event {
	return models.Event{
		ID:           fmt.Sprintf("%s-%s", origin, clock.String()),
		Kind:         models.KindDocumentCreated,
		OriginDevice: origin,
		Timestamp:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Clock:        clock,
		Payload:      models.DocumentCreated{DocID: doc, Path: doc + ".md", Content: doc},
	}
}
