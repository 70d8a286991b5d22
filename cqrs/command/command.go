// Package command defines the handler contract for commands.
//
// A command is a plain value describing one unit of work; the handler that
// executes it implements Command[I, R] where I is the command type and R its
// result type. Cross-cutting behavior is layered on with WrapFunc.
package command

import "context"

// EmptyResult is the result type of commands that produce nothing.
type (
	EmptyResult = struct{}
)

type (
	// Input represents the command value accepted by a handler.
	Input any

	// Result represents the value a handler returns.
	Result any
)

// Command executes commands of type I and returns R.
type Command[I Input, R Result] interface {
	// Execute processes the command input and returns a result or error.
	Execute(context.Context, I) (R, error)
}

// WrapFunc decorates a Command with another Command of the same shape.
type WrapFunc[I Input, R Result] func(Command[I, R]) Command[I, R]

// Func adapts a plain function to the Command interface.
type Func[I Input, R Result] func(context.Context, I) (R, error)

// Execute calls f.
func (f Func[I, R]) Execute(ctx context.Context, input I) (R, error) {
	return f(ctx, input)
}

// Apply decorates handler with wraps. The first wrap becomes the outermost
// layer, so Apply(h, a, b) runs a, then b, then h.
func Apply[I Input, R Result](handler Command[I, R], wraps ...WrapFunc[I, R]) Command[I, R] {
	for i := len(wraps) - 1; i >= 0; i-- {
		if wraps[i] == nil {
			continue
		}
		handler = wraps[i](handler)
	}
	return handler
}
