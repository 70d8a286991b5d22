package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/cfgloader"
	"github.com/rise-and-shine/caseflow/cqrs/dispatch"
	"github.com/rise-and-shine/caseflow/http/server"
	"github.com/rise-and-shine/caseflow/http/server/middleware"
	"github.com/rise-and-shine/caseflow/internal/casefile"
	"github.com/rise-and-shine/caseflow/meta"
	"github.com/rise-and-shine/caseflow/observability/logger"
	"github.com/rise-and-shine/caseflow/observability/tracing"
	"github.com/rise-and-shine/caseflow/outbox"
	"github.com/rise-and-shine/caseflow/outbox/bunstore"
	"github.com/rise-and-shine/caseflow/pg"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Service struct {
		Name    string `yaml:"name"    default:"caseflow"`
		Version string `yaml:"version" env:"SERVICE_VERSION" default:"dev"`
	} `yaml:"service"`

	Logger   logger.Config      `yaml:"logger"`
	Tracing  tracing.Config     `yaml:"tracing"`
	Postgres pg.Config          `yaml:"postgres"`
	Outbox   outbox.Config      `yaml:"outbox"`
	Kafka    outbox.KafkaConfig `yaml:"kafka"`
	HTTP     server.Config      `yaml:"http"`
}

func main() {
	cfg := cfgloader.MustLoad[Config]()

	logger.SetGlobal(cfg.Logger)
	meta.SetServiceInfo(cfg.Service.Name, cfg.Service.Version)

	log := logger.Named("main")
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatalx(err)
	}
}

func run(cfg Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(); err != nil {
			log.Warnx(err)
		}
	}()

	db, err := pg.NewBunDB(ctx, cfg.Postgres, logger.Global())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store := bunstore.New(db)
	if err = store.CreateSchema(ctx); err != nil {
		return err
	}
	if err = casefile.CreateSchema(ctx, db); err != nil {
		return err
	}

	publisher, closePublisher, err := buildPublisher(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closePublisher(); err != nil {
			log.Warnx(err)
		}
	}()

	dispatcher := dispatch.New(
		logger.Global(),
		dispatch.WithMeta(cfg.Service.Name, cfg.Service.Version),
		dispatch.WithTracing(),
		dispatch.WithRecovery(),
	)
	if err = casefile.RegisterHandlers(dispatcher, db, store); err != nil {
		return err
	}
	log.With("commands", dispatcher.Registered()).Info("command handlers registered")

	var scheduler *outbox.Scheduler
	var poller *outbox.PollingPublisher
	if cfg.Outbox.Disable {
		log.Warn("outbox relay is disabled")
	} else {
		poller = outbox.NewPollingPublisher(store, outbox.NewRetryPublisher(publisher, cfg.Outbox.Retry), logger.Global())
		scheduler, err = outbox.NewScheduler(cfg.Outbox, poller, logger.Global())
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	httpErr := make(chan error, 1)
	var srv *server.HTTPServer
	if !cfg.HTTP.Disable {
		srv = server.NewHTTPServer(cfg.HTTP, logger.Global(),
			middleware.Default(cfg.HTTP, logger.Global(), cfg.Service.Name, cfg.Service.Version))
		srv.RegisterRouter(func(r fiber.Router) { casefile.RegisterRoutes(r, dispatcher) })
		go func() { httpErr <- srv.Start() }()
	}

	select {
	case <-ctx.Done():
	case err = <-httpErr:
		log.Errorx(err)
	}
	log.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Stop(stopCtx); err != nil {
			log.Warnx(err)
		}
	}

	if scheduler == nil {
		return nil
	}
	if err = scheduler.Stop(stopCtx); err != nil {
		return err
	}

	stats := poller.Stats()
	log.With("published", stats.Published, "failed", stats.PublishFailed, "skipped", stats.PollsSkipped).
		Info("outbox relay stopped")

	return nil
}

// buildPublisher picks the outbox transport and returns it with its closer.
func buildPublisher(
	ctx context.Context,
	cfg Config,
	db *bun.DB,
	log logger.Logger,
) (*outbox.WatermillPublisher, func() error, error) {
	transport := cfg.Outbox.Transport
	if transport == outbox.TransportAuto || transport == "" {
		transport = outbox.TransportChannel
		if cfg.Kafka.Brokers != "" {
			transport = outbox.TransportKafka
		}
	}

	log = log.With("transport", transport)

	switch transport {
	case outbox.TransportKafka:
		p, err := outbox.NewKafkaPublisher(cfg.Kafka, logger.Global())
		if err != nil {
			return nil, nil, err
		}
		log.Info("publishing outbox to kafka")
		return p, p.Close, nil

	case outbox.TransportSQL:
		p, err := outbox.NewSQLPublisher(db.DB, logger.Global())
		if err != nil {
			return nil, nil, err
		}
		log.Info("publishing outbox to sql tables")
		return p, p.Close, nil

	case outbox.TransportChannel:
		p, pubSub := outbox.NewChannelPublisher(logger.Global())
		if err := consumeLocally(ctx, pubSub, logger.Named("outbox.consumer")); err != nil {
			return nil, nil, err
		}
		log.Info("publishing outbox in process")
		return p, p.Close, nil
	}

	return nil, nil, errx.New("unknown outbox transport", errx.WithDetails(errx.D{"transport": transport}))
}

// consumeLocally logs every case event published on the in-process channel.
func consumeLocally(ctx context.Context, pubSub *gochannel.GoChannel, log logger.Logger) error {
	messages, err := pubSub.Subscribe(ctx, casefile.TopicCaseEvents)
	if err != nil {
		return errx.Wrap(err)
	}

	go func() {
		for msg := range messages {
			log.With(
				"message_id", msg.UUID,
				"event_type", msg.Metadata.Get("event_type"),
				"trace_id", msg.Metadata.Get("trace_id"),
			).Info("case event received")
			msg.Ack()
		}
	}()

	return nil
}
