package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/http/server"
	"github.com/rise-and-shine/caseflow/meta"
	"github.com/rise-and-shine/caseflow/observability/tracing"
)

const (
	HeaderActorID = "X-Actor-ID"
	HeaderTraceID = "X-Trace-ID"
)

// NewMetaInjectMW stores trace id, actor and service info in the request
// context and echoes the trace id in the X-Trace-ID response header.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			ctx := c.UserContext()
			traceID := tracing.StartingTraceID(ctx)

			ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
				meta.TraceID:        traceID,
				meta.ActorID:        c.Get(HeaderActorID),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
			})
			c.SetUserContext(ctx)
			c.Set(HeaderTraceID, traceID)

			return c.Next()
		},
	}
}
