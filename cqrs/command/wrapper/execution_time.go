package wrapper

import (
	"context"
	"time"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

// ExecutionTimeCommandWrapper measures how long the wrapped handler ran and
// logs it at debug level once the handler has returned.
type ExecutionTimeCommandWrapper[I command.Input, R command.Result] struct {
	logger logger.Logger
	next   command.Command[I, R]
	now    func() time.Time
}

func NewExecutionTimeWrapper[I command.Input, R command.Result](
	log logger.Logger,
	cmdType string,
) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &ExecutionTimeCommandWrapper[I, R]{
			logger: log.Named("cqrs.command.timing").With("command_type", cmdType),
			next:   next,
			now:    time.Now,
		}
	}
}

func (w *ExecutionTimeCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	start := w.now()

	result, err := w.next.Execute(ctx, input)

	w.logger.
		WithContext(ctx).
		With("execution_time", w.now().Sub(start).String()).
		With("failed", err != nil).
		Debug("command executed")

	return result, err
}
