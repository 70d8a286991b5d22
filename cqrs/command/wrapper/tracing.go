package wrapper

import (
	"context"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "caseflow/cqrs/command"

type TracingCommandWrapper[I command.Input, R command.Result] struct {
	tracer  trace.Tracer
	cmdType string
	next    command.Command[I, R]
}

func NewTracingWrapper[I command.Input, R command.Result](cmdType string) command.WrapFunc[I, R] {
	return func(next command.Command[I, R]) command.Command[I, R] {
		return &TracingCommandWrapper[I, R]{
			tracer:  otel.Tracer(tracerName),
			cmdType: cmdType,
			next:    next,
		}
	}
}

func (w *TracingCommandWrapper[I, R]) Execute(ctx context.Context, input I) (R, error) {
	ctx, span := w.tracer.Start(ctx, w.cmdType,
		trace.WithAttributes(attribute.String("command.type", w.cmdType)),
	)
	defer span.End()

	result, err := w.next.Execute(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
