package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/paperpilot/internal/dictionary"
)

func TestBus_RoundTrip(t *testing.T) {
	var calls atomic.Int32
	bus := NewBus()
	bus.Listen(ReceiverFunc(func(_ context.Context, request Request) Response {
		calls.Add(1)
		return DefinitionResponse([]dictionary.Entry{{Word: request.Term}})
	}))

	got, err := bus.RoundTrip(context.Background(), DefineRequest("entropy"))
	require.NoError(t, err)
	assert.Equal(t, DefinitionResponse([]dictionary.Entry{{Word: "entropy"}}), got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBus_RoundTrip_Failures(t *testing.T) {
	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })
	slow := ReceiverFunc(func(context.Context, Request) Response {
		<-blocked
		return ArxivResponse(nil)
	})

	tests := []struct {
		name    string
		bus     func() *Bus
		timeout time.Duration
		closeIn time.Duration
		wantErr error
	}{
		{
			name:    "no listener",
			bus:     NewBus,
			wantErr: ErrNoListener,
		},
		{
			name: "closed before sending",
			bus: func() *Bus {
				bus := NewBus()
				bus.Listen(slow)
				bus.Close()
				return bus
			},
			wantErr: ErrClosed,
		},
		{
			name: "closed while waiting",
			bus: func() *Bus {
				bus := NewBus()
				bus.Listen(slow)
				return bus
			},
			closeIn: 10 * time.Millisecond,
			wantErr: ErrClosed,
		},
		{
			name: "caller gives up",
			bus: func() *Bus {
				bus := NewBus()
				bus.Listen(slow)
				return bus
			},
			timeout: 10 * time.Millisecond,
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := tt.bus()
			timeout := tt.timeout
			if timeout == 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if tt.closeIn > 0 {
				time.AfterFunc(tt.closeIn, bus.Close)
			}

			_, err := bus.RoundTrip(ctx, SearchArxivRequest("graphs", 5))
			var transportErr *TransportError
			require.True(t, errors.As(err, &transportErr))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBus_Close_Twice(t *testing.T) {
	bus := NewBus()
	bus.Close()
	assert.NotPanics(t, bus.Close)
}

func TestSender_Send(t *testing.T) {
	t.Run("reply passes through", func(t *testing.T) {
		bus := NewBus()
		bus.Listen(ReceiverFunc(func(context.Context, Request) Response {
			return ErrorResponse("Dictionary error 404")
		}))

		got := NewSender(bus).Send(context.Background(), DefineRequest("entropy"))
		assert.Equal(t, ErrorResponse("Dictionary error 404"), got)
	})

	t.Run("transport failure becomes an error envelope", func(t *testing.T) {
		got := NewSender(NewBus()).Send(context.Background(), DefineRequest("entropy"))
		assert.Equal(t, ErrorResponse(TransportFailureMessage), got)
	})
}
