package outbox

import (
	"context"

	"github.com/code19m/errx"
	"github.com/robfig/cron/v3"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

// Scheduler triggers PollAndPublishAll on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	poller *PollingPublisher
	logger logger.Logger
}

func NewScheduler(cfg Config, poller *PollingPublisher, log logger.Logger) (*Scheduler, error) {
	log = log.Named("outbox.scheduler")

	c := cron.New(
		cron.WithLogger(logger.NewCronAdapter(log)),
		cron.WithChain(cron.Recover(logger.NewCronAdapter(log))),
	)

	s := &Scheduler{cron: c, poller: poller, logger: log}

	_, err := c.AddFunc(cfg.Schedule, s.tick)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"schedule": cfg.Schedule}))
	}

	return s, nil
}

func (s *Scheduler) tick() {
	if err := s.poller.PollAndPublishAll(context.Background()); err != nil {
		s.logger.Errorx(err)
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("starting outbox scheduler")
	s.cron.Start()
}

// Stop stops scheduling and waits for a running drain to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("outbox scheduler stopped")
		return nil
	case <-ctx.Done():
		return errx.Wrap(ctx.Err())
	}
}
