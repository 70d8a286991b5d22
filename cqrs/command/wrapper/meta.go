package wrapper

import (
	"context"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/meta"
	"github.com/rise-and-shine/caseflow/observability/tracing"
)

// MetaInjectCommandWrapper stores trace id, service info and the command type
// in the context so that every log line below it can be correlated.
type MetaInjectCommandWrapper[I command.Input, R command.Result] struct {
	serviceName    string
	serviceVersion string
	cmdType        string
	next           command.Command[I, R]
}

func NewMetaInjectWrapper[I command.Input, R command.Result](
	serviceName, serviceVersion, cmdType string,
) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &MetaInjectCommandWrapper[I, R]{
			serviceName:    serviceName,
			serviceVersion: serviceVersion,
			cmdType:        cmdType,
			next:           next,
		}
	}
}

func (w *MetaInjectCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
		meta.TraceID:        tracing.StartingTraceID(ctx),
		meta.ServiceName:    w.serviceName,
		meta.ServiceVersion: w.serviceVersion,
		meta.CommandType:    w.cmdType,
	})

	return w.next.Execute(ctx, input)
}
