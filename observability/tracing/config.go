package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	exportTimeout      = 30 * time.Second
	batchTimeout       = 5 * time.Second
	maxQueueSize       = 10000
	maxExportBatchSize = 1024
	shutdownTimeout    = 5 * time.Second
)

type Config struct {
	// Disable installs a no-op tracer provider.
	Disable bool `yaml:"disable" env:"TRACING_DISABLE" default:"false"`

	// SampleRate is the fraction of root traces kept, from 0 to 1.
	SampleRate float64 `yaml:"sample_rate" env:"TRACING_SAMPLE_RATE" default:"1" validate:"gte=0,lte=1"`

	ExporterHost string `yaml:"exporter_host" env:"TRACING_EXPORTER_HOST" validate:"required_unless=Disable true"`
	ExporterPort int    `yaml:"exporter_port" env:"TRACING_EXPORTER_PORT" validate:"required_unless=Disable true"`

	// Tags are added to every span as resource attributes.
	Tags map[string]string `yaml:"tags"`
}
