// Package dispatch routes commands to the handler registered for their
// concrete type.
//
// Each handler is wrapped at registration with a logging wrapper (outer) and an
// execution time wrapper (inner), plus whatever optional wrappers the
// Dispatcher was built with. The registry is safe for concurrent use.
package dispatch

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/cqrs/command/wrapper"
	"github.com/rise-and-shine/caseflow/observability/logger"
)

type registration struct {
	cmdType string
	invoke  func(ctx context.Context, cmd any) (any, error)
}

// Dispatcher is a handler registry keyed by command type.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]registration
	logger   logger.Logger
	opts     options
}

// New creates an empty Dispatcher.
func New(log logger.Logger, opts ...Option) *Dispatcher {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Dispatcher{
		handlers: make(map[reflect.Type]registration),
		logger:   log.Named("cqrs.dispatch"),
		opts:     o,
	}
}

// Register wraps handler and stores it under the command type I.
//
// I must be a concrete type. A second registration for the same type replaces
// the first.
func Register[I command.Input, R command.Result](d *Dispatcher, handler command.Command[I, R]) error {
	t := reflect.TypeFor[I]()
	if handler == nil {
		return errx.New("[dispatch]: handler is nil",
			errx.WithCode(CodeUnresolvedHandlerType),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"command_type": t.String()}),
		)
	}
	if t.Kind() == reflect.Interface {
		return errx.New("[dispatch]: cannot resolve command type of handler",
			errx.WithCode(CodeUnresolvedHandlerType),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{
				"command_type": t.String(),
				"handler_type": reflect.TypeOf(handler).String(),
			}),
		)
	}

	name := typeName(t)
	wrapped := command.Apply(handler, wrapsFor[I, R](d, name)...)

	reg := registration{
		cmdType: name,
		invoke: func(ctx context.Context, cmd any) (any, error) {
			// Dispatch looks up by reflect.TypeOf(cmd), so the assertion cannot fail.
			result, err := wrapped.Execute(ctx, cmd.(I))
			return result, err
		},
	}

	d.mu.Lock()
	_, replaced := d.handlers[t]
	d.handlers[t] = reg
	d.mu.Unlock()

	if replaced {
		d.logger.With("command_type", name).Warn("handler replaced by a later registration")
	} else {
		d.logger.With("command_type", name).Debug("handler registered")
	}

	return nil
}

// MustRegister is like Register but panics on failure.
func MustRegister[I command.Input, R command.Result](d *Dispatcher, handler command.Command[I, R]) {
	if err := Register(d, handler); err != nil {
		panic(err)
	}
}

// wrapsFor lists the wrappers for one handler, outermost first.
func wrapsFor[I command.Input, R command.Result](d *Dispatcher, name string) []command.WrapFunc[I, R] {
	var wraps []command.WrapFunc[I, R]

	if d.opts.meta {
		wraps = append(wraps, wrapper.NewMetaInjectWrapper[I, R](d.opts.serviceName, d.opts.serviceVersion, name))
	}
	if d.opts.tracing {
		wraps = append(wraps, wrapper.NewTracingWrapper[I, R](name))
	}

	wraps = append(wraps,
		wrapper.NewLoggingWrapper[I, R](d.logger, name),
		wrapper.NewExecutionTimeWrapper[I, R](d.logger, name),
	)

	if d.opts.timeout > 0 {
		wraps = append(wraps, wrapper.NewTimeoutWrapper[I, R](d.opts.timeout))
	}
	if d.opts.recovery {
		wraps = append(wraps, wrapper.NewRecoveryWrapper[I, R](name))
	}

	return wraps
}

// Dispatch invokes the handler registered for the runtime type of cmd exactly
// once and returns its result. Handler errors are returned as is.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd any) (any, error) {
	t := reflect.TypeOf(cmd)

	d.mu.RLock()
	reg, ok := d.handlers[t]
	d.mu.RUnlock()

	if !ok {
		cmdType := "<nil>"
		if t != nil {
			cmdType = t.String()
		}
		return nil, errx.New("[dispatch]: no handler registered for command",
			errx.WithCode(CodeNoHandlerForCommand),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"command_type": cmdType}),
		)
	}

	d.logger.WithContext(ctx).With("command_type", reg.cmdType).Info("dispatching command")

	return reg.invoke(ctx, cmd)
}

// Registered returns the sorted names of all registered command types.
func (d *Dispatcher) Registered() []string {
	d.mu.RLock()
	names := lo.Map(lo.Values(d.handlers), func(r registration, _ int) string {
		return r.cmdType
	})
	d.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Send dispatches cmd and returns the handler's result as R.
func Send[I command.Input, R command.Result](ctx context.Context, d *Dispatcher, cmd I) (R, error) {
	var zero R

	out, err := d.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}

	result, ok := out.(R)
	if !ok {
		return zero, errx.New("[dispatch]: unexpected command result type",
			errx.WithCode(CodeUnexpectedResult),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{
				"command_type": typeName(reflect.TypeOf(cmd)),
				"result_type":  reflect.TypeOf(out).String(),
			}),
		)
	}

	return result, nil
}

// DispatchAll dispatches cmds in order and stops at the first failure.
func DispatchAll(ctx context.Context, d *Dispatcher, cmds ...any) error {
	for _, cmd := range cmds {
		if _, err := d.Dispatch(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// typeName returns the unqualified name of t, keeping pointer markers.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		return "*" + typeName(t.Elem())
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
