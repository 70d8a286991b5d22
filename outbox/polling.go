package outbox

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/code19m/errx"
	"github.com/rcrowley/go-metrics"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

// PollingPublisher drains a Store into a Publisher.
//
// At most one drain runs at a time per instance. Overlapping calls return
// immediately. Several instances over the same store are not coordinated and
// may publish a message more than once.
type PollingPublisher struct {
	store     Store
	publisher Publisher
	logger    logger.Logger
	metrics   *pollMetrics

	polling atomic.Bool
}

type PollingOption func(*pollingOptions)

type pollingOptions struct {
	registry metrics.Registry
}

// WithMetricsRegistry records relay metrics into r instead of a private registry.
func WithMetricsRegistry(r metrics.Registry) PollingOption {
	return func(o *pollingOptions) {
		o.registry = r
	}
}

func NewPollingPublisher(
	store Store,
	publisher Publisher,
	log logger.Logger,
	opts ...PollingOption,
) *PollingPublisher {
	o := pollingOptions{registry: metrics.NewRegistry()}
	for _, opt := range opts {
		opt(&o)
	}

	return &PollingPublisher{
		store:     store,
		publisher: publisher,
		logger:    log.Named("outbox.polling"),
		metrics:   newPollMetrics(o.registry),
	}
}

// PollAndPublishAll publishes and deletes pending messages oldest first until
// the store is empty.
//
// If a drain is already running it returns nil without touching the store.
// A publish failure stops the drain and leaves the failed message and all
// newer ones in place.
func (p *PollingPublisher) PollAndPublishAll(ctx context.Context) error {
	if !p.polling.CompareAndSwap(false, true) {
		p.metrics.pollsSkipped.Inc(1)
		p.logger.WithContext(ctx).Debug("drain already in progress, skipping poll")
		return nil
	}
	defer p.polling.Store(false)

	start := time.Now()
	defer p.metrics.drain.UpdateSince(start)

	published := 0
	for {
		msg, err := p.store.FindOldestPending(ctx)
		if err != nil {
			return errx.Wrap(err, errx.WithCode(CodeReadFailed))
		}
		if msg == nil {
			break
		}

		if err = p.publishOne(ctx, msg); err != nil {
			return err
		}
		published++
	}

	if published > 0 {
		p.logger.
			WithContext(ctx).
			With("published", published).
			With("elapsed", time.Since(start).String()).
			Info("outbox drained")
	}

	return nil
}

func (p *PollingPublisher) publishOne(ctx context.Context, msg *Message) error {
	err := p.publisher.Publish(ctx, msg)
	if err != nil {
		p.metrics.publishFailed.Inc(1)
		return errx.Wrap(err,
			errx.WithCode(CodePublishFailed),
			errx.WithDetails(errx.D{
				"message_id": msg.ID,
				"topic":      msg.Topic,
			}),
		)
	}
	p.metrics.published.Inc(1)

	err = p.store.Delete(ctx, msg)
	if err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeDeleteFailed),
			errx.WithDetails(errx.D{"message_id": msg.ID}),
		)
	}

	p.logger.
		WithContext(ctx).
		With("message_id", msg.ID).
		With("topic", msg.Topic).
		Debug("message published")

	return nil
}

// Polling reports whether a drain is in progress.
func (p *PollingPublisher) Polling() bool {
	return p.polling.Load()
}

func (p *PollingPublisher) Stats() Stats {
	return p.metrics.snapshot()
}
