package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/http/server"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

// NewLoggerMW logs one line per request: info below 400, warn for 4xx and
// error for 5xx.
func NewLoggerMW(log logger.Logger) server.Middleware {
	log = log.Named("http.middleware.logger")

	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := c.Next()

			status := c.Response().StatusCode()
			l := log.WithContext(c.UserContext()).With(
				"http_status_code", status,
				"http_method", c.Method(),
				"http_path", c.Path(),
				"http_route", c.Route().Path,
				"duration", time.Since(start),
				"request_size", len(c.Body()),
			)
			if err != nil {
				l = l.With(logger.ErrorFields(err)...)
			}

			switch {
			case status >= fiber.StatusInternalServerError:
				l.Error("request failed")
			case status >= fiber.StatusBadRequest:
				l.Warn("request rejected")
			default:
				l.Info("request processed")
			}

			return err
		},
	}
}
