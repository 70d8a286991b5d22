package middleware

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/caseflow/http/server"
)

const tracerName = "caseflow/http/server"

// NewTracingMW continues the caller's trace from W3C headers, or starts a new
// one, and names the span after the matched route.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			carrier := propagation.HeaderCarrier(http.Header(c.GetReqHeaders()))
			ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

			ctx, span := otel.Tracer(tracerName).Start(ctx, c.Method(),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			c.SetUserContext(ctx)

			err := c.Next()

			route := c.Route().Path
			span.SetName(fmt.Sprintf("%s %s", c.Method(), route))
			span.SetAttributes(
				attribute.String("http.request.method", c.Method()),
				attribute.String("http.route", route),
				attribute.String("url.path", c.Path()),
				attribute.Int("http.response.status_code", c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
