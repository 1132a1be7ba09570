package driven

import "github.com/custodia-labs/facet/internal/core/domain"

// Channel is the bidirectional message pipe between a controller and
// one surface. Delivery is FIFO per direction and asynchronous with
// respect to the sender. There is no delivery guarantee beyond
// "delivered if the channel is still open when sent": messages sent
// after disposal are lost by design, because the surface is gone.
type Channel interface {
	// Send enqueues a message for the remote side without blocking on
	// delivery. After Close it fails with domain.ErrChannelClosed;
	// callers that have already begun teardown treat that silently.
	// A full backlog fails with domain.ErrChannelFull while the
	// channel stays open.
	Send(msg domain.Message) error

	// Receive returns the inbound message stream. Messages arrive in
	// receipt order. The channel is closed on disposal and no further
	// messages follow.
	Receive() <-chan domain.Message

	// Close disposes the pipe. Idempotent; safe from either side.
	Close() error
}
