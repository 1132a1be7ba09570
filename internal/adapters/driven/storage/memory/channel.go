package memory

import (
	"sync"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
)

// channelBuffer bounds the per-direction backlog. Sends are
// non-blocking; a full buffer fails the send rather than stalling
// the caller.
const channelBuffer = 64

// Ensure Channel implements the interface.
var _ driven.Channel = (*Channel)(nil)

// Channel is one end of an in-process loopback pipe. Messages sent on
// one end arrive FIFO on the other end's Receive stream. Closing
// either end disposes the whole pipe, mirroring a surface teardown.
type Channel struct {
	shared *pipeState
	outbox chan domain.Message
	inbox  chan domain.Message
}

// pipeState is the disposal state shared by both ends. Send and Close
// are serialised by its mutex so a send can never race a close of the
// inbox channels.
type pipeState struct {
	mu     sync.Mutex
	closed bool
}

// NewChannelPair creates two connected channel ends. The first is
// conventionally given to the controller, the second to the surface.
func NewChannelPair() (*Channel, *Channel) {
	state := &pipeState{}
	aToB := make(chan domain.Message, channelBuffer)
	bToA := make(chan domain.Message, channelBuffer)

	a := &Channel{shared: state, outbox: aToB, inbox: bToA}
	b := &Channel{shared: state, outbox: bToA, inbox: aToB}
	return a, b
}

// Send enqueues a message for the remote end without blocking.
func (c *Channel) Send(msg domain.Message) error {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()

	if c.shared.closed {
		return domain.ErrChannelClosed
	}

	select {
	case c.outbox <- msg:
		return nil
	default:
		return domain.ErrChannelFull
	}
}

// Receive returns the inbound message stream. It is closed when
// either end disposes the pipe.
func (c *Channel) Receive() <-chan domain.Message {
	return c.inbox
}

// Close disposes the pipe for both ends. Idempotent.
func (c *Channel) Close() error {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()

	if c.shared.closed {
		return nil
	}
	c.shared.closed = true
	close(c.outbox)
	close(c.inbox)
	return nil
}
