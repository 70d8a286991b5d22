package dispatch

import "time"

type options struct {
	meta           bool
	serviceName    string
	serviceVersion string
	tracing        bool
	timeout        time.Duration
	recovery       bool
}

// Option configures optional wrappers applied to every handler registered
// after the option takes effect.
type Option func(*options)

// WithMeta injects trace id, service name, service version and command type
// into the context before anything else runs.
func WithMeta(serviceName, serviceVersion string) Option {
	return func(o *options) {
		o.meta = true
		o.serviceName = serviceName
		o.serviceVersion = serviceVersion
	}
}

// WithTracing starts an OpenTelemetry span per dispatched command.
func WithTracing() Option {
	return func(o *options) {
		o.tracing = true
	}
}

// WithTimeout bounds every handler call by d. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRecovery converts handler panics into errors.
func WithRecovery() Option {
	return func(o *options) {
		o.recovery = true
	}
}
