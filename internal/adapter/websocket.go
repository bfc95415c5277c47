package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/peer"
)

const (
	// SyncPath is the websocket endpoint of the peer protocol.
	SyncPath = "/api/sync/ws"

	maxFrameSize  = 64 << 20
	inboxSize     = 64
	closeDeadline = time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 << 10,
	WriteBufferSize: 16 << 10,
}

// wsChannel is a peer.Channel over one websocket connection. A reader
// goroutine decodes frames into inbox until the connection fails.
type wsChannel struct {
	conn *websocket.Conn
	addr string

	writeMu sync.Mutex

	inbox   chan peer.Message
	done    chan struct{}
	readErr error

	closeOnce sync.Once
	closed    chan struct{}

	logger *logger.Logger
}

func newWSChannel(conn *websocket.Conn, addr string, log *logger.Logger) *wsChannel {
	conn.SetReadLimit(maxFrameSize)
	c := &wsChannel{
		conn:   conn,
		addr:   addr,
		inbox:  make(chan peer.Message, inboxSize),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
		logger: log,
	}
	go c.readLoop()
	return c
}

func (c *wsChannel) readLoop() {
	defer close(c.done)
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = err
			return
		}
		if kind != websocket.BinaryMessage {
			c.logger.Warn().Str("func", "wsChannel.readLoop").Str("remote", c.addr).Msg("dropping non-binary frame")
			continue
		}

		msg, err := peer.Decode(data)
		if err != nil {
			c.readErr = err
			return
		}
		select {
		case c.inbox <- msg:
		case <-c.closed:
			return
		}
	}
}

// Send writes one binary frame. The context deadline, if any, becomes the
// write deadline.
func (c *wsChannel) Send(ctx context.Context, msg peer.Message) error {
	data, err := peer.Encode(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return peer.ErrChannelClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	if err = c.conn.SetWriteDeadline(deadline); err != nil {
		return c.mapErr(err)
	}
	if err = c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return c.mapErr(err)
	}
	return nil
}

// Receive returns buffered messages first, then the read error once the
// reader has stopped.
func (c *wsChannel) Receive(ctx context.Context) (peer.Message, error) {
	select {
	case msg := <-c.inbox:
		return msg, nil
	default:
	}

	select {
	case msg := <-c.inbox:
		return msg, nil
	case <-c.done:
		select {
		case msg := <-c.inbox:
			return msg, nil
		default:
		}
		return peer.Message{}, c.mapErr(c.readErr)
	case <-c.closed:
		return peer.Message{}, peer.ErrChannelClosed
	case <-ctx.Done():
		return peer.Message{}, ctx.Err()
	}
}

// Close sends a close frame and releases the connection. It is idempotent.
func (c *wsChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeDeadline))
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *wsChannel) RemoteAddr() string { return c.addr }

func (c *wsChannel) mapErr(err error) error {
	if err == nil {
		return peer.ErrChannelClosed
	}
	select {
	case <-c.closed:
		return peer.ErrChannelClosed
	default:
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return peer.ErrChannelClosed
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", peer.ErrPeerTimeout, err)
	}
	return err
}

// Upgrade turns an inbound HTTP request into a peer channel.
func Upgrade(w http.ResponseWriter, r *http.Request, log *logger.Logger) (peer.Channel, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	return newWSChannel(conn, r.RemoteAddr, log), nil
}

type wsDialer struct {
	dialer *websocket.Dialer
	logger *logger.Logger
}

// NewWSDialer returns a peer.Dialer for websocket peers. Addresses may be
// given as ws(s):// or http(s):// URLs or as bare host:port; a missing path
// defaults to SyncPath.
func NewWSDialer(handshakeTimeout time.Duration, log *logger.Logger) peer.Dialer {
	d := *websocket.DefaultDialer
	if handshakeTimeout > 0 {
		d.HandshakeTimeout = handshakeTimeout
	}
	return &wsDialer{dialer: &d, logger: log}
}

func (d *wsDialer) Dial(ctx context.Context, addr string) (peer.Channel, error) {
	target, err := normalizeWSAddress(addr)
	if err != nil {
		return nil, err
	}

	conn, resp, err := d.dialer.DialContext(ctx, target, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}

	d.logger.Debug().Str("func", "wsDialer.Dial").Str("address", target).Msg("peer connection established")
	return newWSChannel(conn, target, d.logger), nil
}

func normalizeWSAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("address must include host")
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = SyncPath
	}
	return u.String(), nil
}
