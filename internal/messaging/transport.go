package messaging

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrNoListener = errors.New("no listener registered")
	ErrClosed     = errors.New("channel closed")
)

// Transport delivers one request and waits for its one reply.
type Transport interface {
	RoundTrip(ctx context.Context, request Request) (Response, error)
}

// Receiver is the background side of the bus.
type Receiver interface {
	Handle(ctx context.Context, request Request) Response
}

type ReceiverFunc func(ctx context.Context, request Request) Response

func (f ReceiverFunc) Handle(ctx context.Context, request Request) Response {
	return f(ctx, request)
}

// TransportError is a failure to reach the background process at all.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func (e *TransportError) UserMessage() string {
	return TransportFailureMessage
}

// Sender is the UI side of the bus. It never returns an error; transport
// failures become an {ok:false} envelope.
type Sender struct {
	transport Transport
}

func NewSender(transport Transport) *Sender {
	return &Sender{transport: transport}
}

func (s *Sender) Send(ctx context.Context, request Request) Response {
	response, err := s.transport.RoundTrip(ctx, request)
	if err != nil {
		slog.Default().Warn("failed to send message",
			"type", request.Type,
			"error", err)
		return ErrorResponse(TransportFailureMessage)
	}
	return response
}
