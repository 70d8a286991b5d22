// Package middleware holds the fiber middlewares of the HTTP server.
//
// Each middleware carries a priority; higher runs earlier:
//
//   - Recovery (1000)
//   - Tracing (900)
//   - Timeout (800)
//   - MetaInject (700)
//   - Logger (500)
//   - ErrorHandler (400)
package middleware

import (
	"github.com/rise-and-shine/caseflow/http/server"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

// Default returns the standard middleware set for a server.
func Default(cfg server.Config, log logger.Logger, serviceName, serviceVersion string) []server.Middleware {
	return []server.Middleware{
		NewRecoveryMW(log),
		NewTracingMW(),
		NewTimeoutMW(cfg.HandleTimeout),
		NewMetaInjectMW(serviceName, serviceVersion),
		NewLoggerMW(log),
		NewErrorHandlerMW(cfg.HideErrorDetails),
	}
}
