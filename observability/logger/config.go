package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"

	encPretty  = "pretty"
	encJSON    = "json"
	levelDebug = "debug"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level is the minimum level to emit: debug, info, warn or error.
	Level string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error" default:"debug"`

	// Encoding is either "json" for production or "pretty" for colored terminal output.
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" validate:"oneof=json pretty" default:"pretty"`

	// Disable builds a no-op logger. Useful in tests.
	Disable bool `yaml:"disable" default:"false"`
}

func (c Config) zapConfig() (*zap.Config, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"level": c.Level}))
	}

	return &zap.Config{
		Level:            level,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Encoding:         encJSON,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     messageKey,
			LevelKey:       levelKey,
			NameKey:        nameKey,
			TimeKey:        timeKey,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
	}, nil
}
