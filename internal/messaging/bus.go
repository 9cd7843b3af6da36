package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Bus connects a UI context and a background receiver living in the same
// process. Messages are serialized on the way in and out so neither side can
// share memory with the other.
type Bus struct {
	mu       sync.RWMutex
	receiver Receiver
	done     chan struct{}
	closed   bool
}

var _ Transport = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{done: make(chan struct{})}
}

// Listen registers the background receiver, replacing any previous one.
func (b *Bus) Listen(receiver Receiver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receiver = receiver
}

// Close fails every in-flight and future round trip with ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

func (b *Bus) RoundTrip(ctx context.Context, request Request) (Response, error) {
	b.mu.RLock()
	receiver, closed := b.receiver, b.closed
	b.mu.RUnlock()
	if closed {
		return Response{}, &TransportError{Cause: ErrClosed}
	}
	if receiver == nil {
		return Response{}, &TransportError{Cause: ErrNoListener}
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return Response{}, &TransportError{Cause: fmt.Errorf("json.Marshal > %w", err)}
	}

	// buffered so the receiver never blocks on a caller that has gone away
	replies := make(chan []byte, 1)
	failures := make(chan error, 1)
	go func() {
		var delivered Request
		if err := json.Unmarshal(payload, &delivered); err != nil {
			failures <- fmt.Errorf("json.Unmarshal > %w", err)
			return
		}
		reply, err := json.Marshal(receiver.Handle(ctx, delivered))
		if err != nil {
			failures <- fmt.Errorf("json.Marshal > %w", err)
			return
		}
		replies <- reply
	}()

	select {
	case reply := <-replies:
		var response Response
		if err := json.Unmarshal(reply, &response); err != nil {
			return Response{}, &TransportError{Cause: fmt.Errorf("json.Unmarshal > %w", err)}
		}
		return response, nil
	case err := <-failures:
		return Response{}, &TransportError{Cause: err}
	case <-b.done:
		return Response{}, &TransportError{Cause: ErrClosed}
	case <-ctx.Done():
		return Response{}, &TransportError{Cause: ctx.Err()}
	}
}
