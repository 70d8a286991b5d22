// Package logger provides a structured logging interface for applications.
//
// It wraps zap's SugaredLogger and enriches entries with metadata carried in
// the context (see package meta).
package logger

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/caseflow/meta"
	"go.uber.org/zap"
)

// Logger defines the standard logging interface used across applications.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg any)
	// Info logs a message at info level.
	Info(msg any)
	// Warn logs a message at warn level.
	Warn(msg any)
	// Error logs a message at error level.
	Error(msg any)
	// Fatal logs a message at fatal level and then calls os.Exit(1).
	Fatal(msg any)

	// Debugf logs a formatted message at debug level.
	Debugf(format string, args ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)

	// Warnx logs an error at warn level, expanding errx fields when present.
	Warnx(err error)
	// Errorx logs an error at error level, expanding errx fields when present.
	Errorx(err error)
	// Fatalx logs an error at fatal level and then calls os.Exit(1).
	Fatalx(err error)

	// With returns a child logger carrying the given key-value pairs.
	With(keysAndValues ...any) Logger
	// WithContext returns a child logger carrying metadata found in ctx.
	WithContext(ctx context.Context) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

// New creates a Logger from cfg.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return FromZap(zap.NewNop()), nil
	}

	zapCfg, err := cfg.zapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding == encPretty {
		return FromZap(newPrettyLogger(zapCfg)), nil
	}

	z, err := zapCfg.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return FromZap(z), nil
}

// FromZap wraps an existing zap logger, e.g. one built on zaptest/observer.
func FromZap(z *zap.Logger) Logger {
	return &logger{SugaredLogger: z.Sugar()}
}

// ErrorFields returns the errx attributes of err as key-value pairs, or just
// the message for plain errors.
func ErrorFields(err error) []any {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return []any{"error", err.Error()}
	}
	return []any{
		"error", err.Error(),
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_details", e.Details(),
	}
}

func (l *logger) Warnx(err error) {
	l.SugaredLogger.With(ErrorFields(err)...).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.SugaredLogger.With(ErrorFields(err)...).Error(err.Error())
}

func (l *logger) Fatalx(err error) {
	l.SugaredLogger.With(ErrorFields(err)...).Fatal(err.Error())
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	data := meta.ExtractMetaFromContext(ctx)
	if len(data) == 0 {
		return l
	}

	fields := make([]any, 0, len(data)*2)
	for k, v := range data {
		fields = append(fields, string(k), v)
	}
	return l.With(fields...)
}

func (l *logger) Named(name string) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.Named(name)}
}

func (l *logger) Debug(msg any) { l.SugaredLogger.Debug(msg) }

func (l *logger) Info(msg any) { l.SugaredLogger.Info(msg) }

func (l *logger) Warn(msg any) { l.SugaredLogger.Warn(msg) }

func (l *logger) Error(msg any) { l.SugaredLogger.Error(msg) }

func (l *logger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }
