package outbox

import (
	"context"

	"github.com/avast/retry-go/v4"
)

// RetryPublisher retries a failing publish a bounded number of times before
// giving up with the last error.
type RetryPublisher struct {
	next Publisher
	cfg  RetryConfig
}

func NewRetryPublisher(next Publisher, cfg RetryConfig) *RetryPublisher {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	return &RetryPublisher{next: next, cfg: cfg}
}

func (r *RetryPublisher) Publish(ctx context.Context, msg *Message) error {
	return retry.Do(
		func() error {
			return r.next.Publish(ctx, msg)
		},
		retry.Context(ctx),
		retry.Attempts(r.cfg.Attempts),
		retry.Delay(r.cfg.Delay),
		retry.MaxDelay(r.cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
