package lookup

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
)

// RetryConfig bounds how often a transient upstream failure is re-attempted.
type RetryConfig struct {
	MaxRetryAttempts uint
	Delay            time.Duration
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up. The returned error is always the last one seen.
func Do(ctx context.Context, config RetryConfig, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(config.MaxRetryAttempts+1),
		retry.Delay(config.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying upstream call",
				"attempt", n+1,
				"error", err)
		}),
	)
}
