// Package forward adapts dispatcher commands to fiber handlers.
package forward

import (
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/cqrs/dispatch"
)

const (
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeInvalidJSONBody    = "INVALID_JSON_BODY"
	CodeInvalidQueryParams = "INVALID_QUERY_PARAMS"
	CodeInvalidPathParams  = "INVALID_PATH_PARAMS"
)

// ToCommand decodes the JSON body, then query parameters (`query` tags),
// then path parameters (`params` tags) into a fresh I and sends it through
// d. The result is written as JSON with the given status; commands returning
// command.EmptyResult answer with 204 and no body.
func ToCommand[I command.Input, R command.Result](d *dispatch.Dispatcher, status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := new(I)

		if err := decodeBody(c, in); err != nil {
			return err
		}
		if err := decodeQuery(c, in); err != nil {
			return err
		}
		if err := decodePath(c, in); err != nil {
			return err
		}

		result, err := dispatch.Send[I, R](c.UserContext(), d, *in)
		if err != nil {
			return err
		}

		if _, empty := any(result).(command.EmptyResult); empty {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return errx.Wrap(c.Status(status).JSON(result))
	}
}

func decodeBody(c *fiber.Ctx, in any) error {
	if len(c.Body()) == 0 {
		return nil
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return errx.New("content type must be application/json",
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidContentType),
		)
	}

	if err := c.BodyParser(in); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(CodeInvalidJSONBody))
	}
	return nil
}

func decodeQuery(c *fiber.Ctx, in any) error {
	if len(c.Queries()) == 0 {
		return nil
	}

	if err := c.QueryParser(in); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(CodeInvalidQueryParams))
	}
	return nil
}

func decodePath(c *fiber.Ctx, in any) error {
	if len(c.AllParams()) == 0 {
		return nil
	}

	if err := c.ParamsParser(in); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(CodeInvalidPathParams))
	}
	return nil
}
