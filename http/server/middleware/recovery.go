package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/http/server"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

const (
	CodePanicRecovered = "HTTP_PANIC_RECOVERED"

	stackTraceSize = 4096
)

// NewRecoveryMW turns panics anywhere below it into internal errx errors.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	log = log.Named("http.middleware.recovery")

	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, stackTraceSize)
					stack = stack[:runtime.Stack(stack, false)]

					log.WithContext(c.UserContext()).
						With("stack_trace", string(stack), "panic_message", r).
						Error("recovered from panic")

					err = server.WriteErrorResponse(c, errx.New("panic recovered",
						errx.WithCode(CodePanicRecovered),
						errx.WithType(errx.T_Internal),
						errx.WithDetails(errx.D{"panic_message": r}),
					), true)
				}
			}()

			return c.Next()
		},
	}
}
