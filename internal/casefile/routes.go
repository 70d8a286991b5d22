package casefile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/cqrs/dispatch"
	"github.com/rise-and-shine/caseflow/http/server/forward"
)

// RegisterRoutes exposes the case commands over HTTP. The handlers must
// already be registered with d.
func RegisterRoutes(r fiber.Router, d *dispatch.Dispatcher) {
	cases := r.Group("/cases")

	cases.Post("/", forward.ToCommand[OpenCase, CaseOpened](d, fiber.StatusCreated))
	cases.Get("/", forward.ToCommand[ListCases, CaseList](d, fiber.StatusOK))
	cases.Get("/:id", forward.ToCommand[GetCase, Case](d, fiber.StatusOK))
	cases.Post("/:id/close", forward.ToCommand[CloseCase, command.EmptyResult](d, fiber.StatusNoContent))
}
