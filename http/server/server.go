// Package server is the fiber based HTTP surface of the service. Routes are
// registered by domain packages; the server owns middleware ordering and
// the error response format.
package server

import (
	"context"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

type HTTPServer struct {
	cfg    Config
	router *fiber.App
	logger logger.Logger
}

// NewHTTPServer builds the fiber app and applies middlewares by descending priority.
func NewHTTPServer(cfg Config, log logger.Logger, middlewares []Middleware) *HTTPServer {
	router := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          customErrorHandler(cfg.HideErrorDetails),
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             cfg.BodyLimit,
	})

	applyMiddlewares(router, middlewares)

	return &HTTPServer{
		cfg:    cfg,
		router: router,
		logger: log.Named("http.server"),
	}
}

func (s *HTTPServer) RegisterRouter(registerFunc func(r fiber.Router)) {
	registerFunc(s.router)
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *HTTPServer) App() *fiber.App {
	return s.router
}

// Start blocks serving requests until Stop is called.
func (s *HTTPServer) Start() error {
	s.logger.With("address", s.cfg.Address()).Info("starting http server")
	return errx.Wrap(s.router.Listen(s.cfg.Address()))
}

// Stop waits for in-flight requests to finish or ctx to expire.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return errx.Wrap(s.router.ShutdownWithContext(ctx))
}
