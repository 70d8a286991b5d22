package outbox

import "time"

const (
	TransportAuto    = "auto"
	TransportKafka   = "kafka"
	TransportSQL     = "sql"
	TransportChannel = "channel"
)

type Config struct {
	// Transport picks the publisher. "auto" means kafka when brokers are
	// configured and the in-process channel otherwise.
	Transport string `yaml:"transport" env:"OUTBOX_TRANSPORT" default:"auto" validate:"oneof=auto kafka sql channel"`

	// Schedule is a robfig/cron spec, e.g. "@every 1s".
	Schedule string `yaml:"schedule" env:"OUTBOX_SCHEDULE" default:"@every 1s"`
	Disable  bool   `yaml:"disable"  env:"OUTBOX_DISABLE"`

	Retry RetryConfig `yaml:"retry"`
}

type KafkaConfig struct {
	// Brokers is a comma separated list. Empty selects the in-process channel publisher.
	Brokers  string `yaml:"brokers"   env:"KAFKA_BROKERS"`
	ClientID string `yaml:"client_id" env:"KAFKA_CLIENT_ID" default:"caseflow"`
}

type RetryConfig struct {
	Attempts uint          `yaml:"attempts"  default:"3"     validate:"min=1"`
	Delay    time.Duration `yaml:"delay"     default:"100ms"`
	MaxDelay time.Duration `yaml:"max_delay" default:"2s"`
}
