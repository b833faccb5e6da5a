package server

import (
	"chat-courier/domain"
	"chat-courier/errors"
	"context"
	"sync"

	"github.com/google/uuid"
)

// StreamConnection is the presence handle of one Connect stream.
// Push hands the delivery to the stream loop through a buffered channel.
type StreamConnection struct {
	id         string
	deliveries chan domain.Delivery
	done       chan struct{}
	closeOnce  sync.Once
}

func NewStreamConnection(bufferSize int) *StreamConnection {
	return &StreamConnection{
		id:         uuid.NewString(),
		deliveries: make(chan domain.Delivery, bufferSize),
		done:       make(chan struct{}),
	}
}

func (c *StreamConnection) ID() string {
	return c.id
}

// Push blocks until the delivery is buffered, the context expires or the stream closes.
func (c *StreamConnection) Push(ctx context.Context, delivery domain.Delivery) error {
	select {
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case c.deliveries <- delivery:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return errors.ErrConnectionClosed
	}
}

func (c *StreamConnection) Deliveries() <-chan domain.Delivery {
	return c.deliveries
}

// Close is idempotent. The deliveries channel is never closed so a late Push cannot panic.
func (c *StreamConnection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
