package outbox

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

const (
	metricPublished     = "outbox.published"
	metricPublishFailed = "outbox.publish_failed"
	metricPollsSkipped  = "outbox.polls_skipped"
	metricDrain         = "outbox.drain"
)

type pollMetrics struct {
	published     metrics.Counter
	publishFailed metrics.Counter
	pollsSkipped  metrics.Counter
	drain         metrics.Timer
}

func newPollMetrics(r metrics.Registry) *pollMetrics {
	return &pollMetrics{
		published:     metrics.GetOrRegisterCounter(metricPublished, r),
		publishFailed: metrics.GetOrRegisterCounter(metricPublishFailed, r),
		pollsSkipped:  metrics.GetOrRegisterCounter(metricPollsSkipped, r),
		drain:         metrics.GetOrRegisterTimer(metricDrain, r),
	}
}

// Stats is a point-in-time view of the relay counters.
type Stats struct {
	Published     int64
	PublishFailed int64
	PollsSkipped  int64
	Drains        int64
	DrainMean     time.Duration
}

func (m *pollMetrics) snapshot() Stats {
	drain := m.drain.Snapshot()
	return Stats{
		Published:     m.published.Snapshot().Count(),
		PublishFailed: m.publishFailed.Snapshot().Count(),
		PollsSkipped:  m.pollsSkipped.Snapshot().Count(),
		Drains:        drain.Count(),
		DrainMean:     time.Duration(drain.Mean()),
	}
}
