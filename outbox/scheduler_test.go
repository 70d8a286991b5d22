package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/caseflow/outbox"
)

func TestScheduler(t *testing.T) {
	store := newMemStore(msg("a"), msg("b"))
	pub := &recPublisher{}
	log, _ := newLogger(t)
	poller := outbox.NewPollingPublisher(store, pub, log)

	s, err := outbox.NewScheduler(outbox.Config{Schedule: "@every 1s"}, poller, log)
	require.NoError(t, err)

	s.Start()
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		return len(store.ids()) == 0
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, pub.ids())

	// Messages added later are picked up by a following tick.
	store.add(msg("c"))
	require.Eventually(t, func() bool {
		return len(pub.ids()) == 3
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSchedulerInvalidSchedule(t *testing.T) {
	log, _ := newLogger(t)
	poller := outbox.NewPollingPublisher(newMemStore(), &recPublisher{}, log)

	_, err := outbox.NewScheduler(outbox.Config{Schedule: "every now and then"}, poller, log)

	require.Error(t, err)
}
