package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/caseflow/meta"
)

// StartingTraceID returns the id used to correlate everything done for one
// command: the active span's trace id, else a trace id already carried in
// ctx metadata, else a generated "man-" prefixed uuid.
func StartingTraceID(ctx context.Context) string {
	if id := trace.SpanFromContext(ctx).SpanContext().TraceID(); id.IsValid() {
		return id.String()
	}
	if id := meta.Find(ctx, meta.TraceID); id != "" {
		return id
	}
	return "man-" + uuid.NewString()
}
