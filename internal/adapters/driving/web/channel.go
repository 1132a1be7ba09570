package web

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
	"github.com/custodia-labs/facet/internal/logger"
)

const (
	// channelBuffer bounds the per-direction backlog.
	channelBuffer = 64

	// writeWait bounds a single websocket write so a dead peer cannot
	// wedge the write pump.
	writeWait = 10 * time.Second
)

// Ensure Channel implements the interface.
var _ driven.Channel = (*Channel)(nil)

// Channel adapts a websocket connection to the transport channel
// port. Messages are JSON frames. A read failure (peer gone, tab
// closed) disposes the channel, which in turn disposes the session.
type Channel struct {
	conn   *websocket.Conn
	outbox chan domain.Message
	inbox  chan domain.Message

	closeOnce sync.Once
	closed    chan struct{}
}

// NewChannel wraps an established websocket connection and starts its
// read and write pumps.
func NewChannel(conn *websocket.Conn) *Channel {
	c := &Channel{
		conn:   conn,
		outbox: make(chan domain.Message, channelBuffer),
		inbox:  make(chan domain.Message, channelBuffer),
		closed: make(chan struct{}),
	}
	go c.writePump()
	go c.readPump()
	return c
}

// Send enqueues a message for the surface without blocking.
func (c *Channel) Send(msg domain.Message) error {
	select {
	case <-c.closed:
		return domain.ErrChannelClosed
	default:
	}

	select {
	case c.outbox <- msg:
		return nil
	case <-c.closed:
		return domain.ErrChannelClosed
	default:
		return domain.ErrChannelFull
	}
}

// Receive returns the inbound message stream. It closes when the
// peer disconnects or the channel is disposed.
func (c *Channel) Receive() <-chan domain.Message {
	return c.inbox
}

// Close disposes the channel and the underlying connection.
// Idempotent.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
	return nil
}

// writePump serialises all websocket writes onto one goroutine.
func (c *Channel) writePump() {
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.outbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Debug("surface write failed: %v", err)
				_ = c.Close()
				return
			}
		}
	}
}

// readPump forwards inbound frames until the connection dies. It owns
// the inbox and closes it on exit so receivers observe disposal.
func (c *Channel) readPump() {
	defer close(c.inbox)
	defer c.Close()

	for {
		var msg domain.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		select {
		case c.inbox <- msg:
		case <-c.closed:
			return
		}
	}
}
