// Package meta carries request and trace metadata through context.Context.
package meta

import (
	"context"

	"github.com/code19m/errx"
)

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID correlates log lines and spans of one logical operation.
	TraceID ContextKey = "trace_id"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// CommandType is the type name of the command being dispatched.
	CommandType ContextKey = "command_type"

	// MessageID is the id of the outbox message being relayed.
	MessageID ContextKey = "message_id"

	// ActorID identifies the user or system on whose behalf the work runs.
	ActorID ContextKey = "actor_id"
)

//nolint:gochecknoglobals // fixed lookup order for extraction
var knownKeys = []ContextKey{
	TraceID,
	ServiceName,
	ServiceVersion,
	CommandType,
	MessageID,
	ActorID,
}

// InjectMetaToContext adds non-empty values from data to ctx.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext returns every known key that holds a non-empty string.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range knownKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the value stored under key or an empty string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// ShouldGetMeta returns the value stored under key, failing when it is absent
// or not a string.
func ShouldGetMeta(ctx context.Context, key ContextKey) (string, error) {
	raw := ctx.Value(key)
	if raw == nil {
		return "", errx.New("[meta]: key not found", errx.WithDetails(errx.D{"key": string(key)}))
	}
	v, ok := raw.(string)
	if !ok {
		return "", errx.New("[meta]: type mismatch", errx.WithDetails(errx.D{"key": string(key)}))
	}
	return v, nil
}
