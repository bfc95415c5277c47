package peer

import (
	"context"
	"sync"
)

// Channel is a bidirectional, ordered message stream to one peer.
// Send may be called concurrently with Receive; implementations serialize
// concurrent Sends themselves or are only used from one sender.
type Channel interface {
	Send(ctx context.Context, msg Message) error
	// Receive blocks until a message arrives, ctx ends or the channel is
	// closed (ErrChannelClosed).
	Receive(ctx context.Context) (Message, error)
	Close() error
	RemoteAddr() string
}

// Dialer opens outbound channels.
type Dialer interface {
	Dial(ctx context.Context, addr string) (Channel, error)
}

const pipeBuffer = 64

type pipeEnd struct {
	in     <-chan []byte
	out    chan<- []byte
	closed chan struct{}
	once   *sync.Once
	addr   string
}

// Pipe returns two connected in-memory channels. Frames pass through the
// wire codec. Closing either end closes both.
func Pipe() (Channel, Channel) {
	ab := make(chan []byte, pipeBuffer)
	ba := make(chan []byte, pipeBuffer)
	closed := make(chan struct{})
	once := &sync.Once{}

	a := &pipeEnd{in: ba, out: ab, closed: closed, once: once, addr: "pipe:b"}
	b := &pipeEnd{in: ab, out: ba, closed: closed, once: once, addr: "pipe:a"}
	return a, b
}

func (p *pipeEnd) Send(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	select {
	case <-p.closed:
		return ErrChannelClosed
	default:
	}
	select {
	case p.out <- data:
		return nil
	case <-p.closed:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeEnd) Receive(ctx context.Context) (Message, error) {
	// frames sent before Close are still delivered
	select {
	case data := <-p.in:
		return Decode(data)
	default:
	}
	select {
	case data := <-p.in:
		return Decode(data)
	case <-p.closed:
		return Message{}, ErrChannelClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (p *pipeEnd) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *pipeEnd) RemoteAddr() string { return p.addr }
