package server

import (
	"fmt"
	"time"
)

type Config struct {
	// Disable skips starting the HTTP server.
	Disable bool `yaml:"disable" env:"HTTP_DISABLE"`

	// HideErrorDetails drops trace and details from error responses.
	HideErrorDetails bool `yaml:"hide_error_details" env:"HTTP_HIDE_ERROR_DETAILS"`

	Host string `yaml:"host" env:"HTTP_HOST" default:"0.0.0.0"`
	Port int    `yaml:"port" env:"HTTP_PORT" default:"8080" validate:"min=1,max=65535"`

	ReadTimeout   time.Duration `yaml:"read_timeout"    default:"5s"`
	WriteTimeout  time.Duration `yaml:"write_timeout"   default:"5s"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"    default:"120s"`
	HandleTimeout time.Duration `yaml:"request_timeout" default:"10s"`

	// BodyLimit is the maximum request body size in bytes.
	BodyLimit int `yaml:"body_limit" default:"1048576"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
