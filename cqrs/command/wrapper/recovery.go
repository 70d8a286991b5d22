package wrapper

import (
	"context"
	"fmt"
	"runtime"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/caseflow/cqrs/command"
)

// CodePanicRecovered marks errors produced from a recovered handler panic.
const CodePanicRecovered = "COMMAND_PANIC_RECOVERED"

const stackTraceSize = 4096

// RecoveryCommandWrapper turns a panic in the wrapped handler into an error.
type RecoveryCommandWrapper[I command.Input, R command.Result] struct {
	next    command.Command[I, R]
	cmdType string
}

func NewRecoveryWrapper[I command.Input, R command.Result](cmdType string) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &RecoveryCommandWrapper[I, R]{next: next, cmdType: cmdType}
	}
}

func (w *RecoveryCommandWrapper[I, R]) Execute(ctx context.Context, input I) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			stackTrace := make([]byte, stackTraceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			err = errx.New("panic recovered while executing command",
				errx.WithCode(CodePanicRecovered),
				errx.WithDetails(errx.D{
					"command_type": w.cmdType,
					"stack_trace":  string(stackTrace),
					"panic_values": fmt.Sprintf("%v", r),
				}),
			)
		}
	}()

	return w.next.Execute(ctx, input)
}
