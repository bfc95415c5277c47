package peer

import "errors"

var (
	// ErrChannelClosed is returned by Send and Receive once either end of a
	// channel has been closed.
	ErrChannelClosed = errors.New("channel closed")

	ErrInvalidMessage    = errors.New("invalid message")
	ErrUnexpectedMessage = errors.New("unexpected message")

	// ErrVaultMismatch rejects a HELLO from a device of another vault.
	ErrVaultMismatch     = errors.New("vault mismatch")
	ErrSelfConnection    = errors.New("connection to self")
	ErrDuplicatePeer     = errors.New("peer already connected")
	ErrHandshakeRejected = errors.New("handshake rejected")

	// ErrPeerTimeout is returned when a peer stayed silent for longer than
	// the suspicion threshold.
	ErrPeerTimeout = errors.New("peer timed out")

	ErrManagerClosed = errors.New("peer manager closed")
	ErrNoDialer      = errors.New("no dialer configured")
)
