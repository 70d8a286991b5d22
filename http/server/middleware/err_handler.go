package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/http/server"
)

// NewErrorHandlerMW writes the JSON error body for errors returned by
// handlers, so the logger above it sees the final status code.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			if c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
