package wrapper

import (
	"context"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/mask"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

// LoggingCommandWrapper logs the start of every command at info level and
// failures at error level, with the input redacted by mask tags. Errors are
// returned untouched.
type LoggingCommandWrapper[I command.Input, R command.Result] struct {
	logger logger.Logger
	next   command.Command[I, R]
}

func NewLoggingWrapper[I command.Input, R command.Result](
	log logger.Logger,
	cmdType string,
) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &LoggingCommandWrapper[I, R]{
			logger: log.Named("cqrs.command.logging").With("command_type", cmdType),
			next:   next,
		}
	}
}

func (w *LoggingCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	log := w.logger.WithContext(ctx)
	log.Info("command started")

	result, err := w.next.Execute(ctx, input)
	if err != nil {
		log.With(logger.ErrorFields(err)...).
			With("input", mask.Redact(input)).
			Error("command failed")
	}

	return result, err
}
