// Package tracing sets up the global OpenTelemetry tracer provider with an
// OTLP gRPC exporter.
package tracing

import (
	"context"
	"net"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rise-and-shine/caseflow/meta"
)

// InitGlobalTracer installs a tracer provider and W3C propagators globally and
// returns a shutdown func that flushes pending spans.
//
// Service name and version come from meta.SetServiceInfo.
func InitGlobalTracer(cfg Config) (func() error, error) {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(exporterAddr(cfg)),
			otlptracegrpc.WithReconnectionPeriod(reconnectionPeriod),
			otlptracegrpc.WithTimeout(exportTimeout),
		),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SampleRate))),
		trace.WithSpanProcessor(trace.NewBatchSpanProcessor(exporter,
			trace.WithBatchTimeout(batchTimeout),
			trace.WithMaxQueueSize(maxQueueSize),
			trace.WithMaxExportBatchSize(maxExportBatchSize),
		)),
		trace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, resourceAttrs(cfg)...)),
	)
	otel.SetTracerProvider(tp)

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tp.ForceFlush(ctx); err != nil {
			return errx.Wrap(err)
		}
		return errx.Wrap(tp.Shutdown(ctx))
	}, nil
}

func exporterAddr(cfg Config) string {
	return net.JoinHostPort(cfg.ExporterHost, cast.ToString(cfg.ExporterPort))
}

func resourceAttrs(cfg Config) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(cfg.Tags)+2)
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	return append(attrs,
		semconv.ServiceNameKey.String(meta.GetServiceName()),
		semconv.ServiceVersionKey.String(meta.GetServiceVersion()),
	)
}
