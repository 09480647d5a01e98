package messaging

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"
)

// Published is a message recorded by Memory.
type Published struct {
	Destination string
	Message     OutgoingMessage
}

// Memory records published messages in process.
type Memory struct {
	mu     sync.Mutex
	msgs   []Published
	closed bool
}

// NewMemory returns an empty in-memory publisher.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish records the message.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return PublishResult{}, io.ErrClosedPipe
	}
	m.msgs = append(m.msgs, Published{Destination: destination, Message: msg})

	return PublishResult{
		MessageID: strconv.Itoa(len(m.msgs)),
		Topic:     destination,
		Timestamp: time.Now(),
	}, nil
}

// Messages returns a copy of everything published so far.
func (m *Memory) Messages() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Published(nil), m.msgs...)
}

// Close rejects further publishes.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
