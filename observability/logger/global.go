package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

//nolint:gochecknoglobals // process-wide logger singleton
var (
	global   atomic.Value // stores Logger
	setOnce  sync.Once
	initOnce sync.Once
)

// SetGlobal configures the process-wide logger. It must be called at most
// once, before the first log line; a second call panics.
func SetGlobal(cfg Config) {
	called := false
	setOnce.Do(func() {
		initOnce.Do(func() {})

		l, err := New(cfg)
		if err != nil {
			panic("[logger]: failed to initialize global logger: " + err.Error())
		}
		global.Store(l)
		called = true
	})
	if !called {
		panic("[logger]: SetGlobal can only be called once")
	}
}

// Global returns the process-wide logger, building a debug/pretty one lazily.
func Global() Logger {
	if l, ok := global.Load().(Logger); ok {
		return l
	}
	initOnce.Do(func() {
		l, err := New(Config{Level: levelDebug, Encoding: encPretty})
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		global.Store(l)
	})
	return global.Load().(Logger) //nolint:forcetypeassert // stored above
}

// Info logs a message at info level using the global logger.
func Info(msg any) { Global().Info(msg) }

// Warn logs a message at warn level using the global logger.
func Warn(msg any) { Global().Warn(msg) }

// Error logs a message at error level using the global logger.
func Error(msg any) { Global().Error(msg) }

// Fatalx logs err at fatal level using the global logger and exits.
func Fatalx(err error) { Global().Fatalx(err) }

// With returns a child of the global logger carrying the given pairs.
func With(keysAndValues ...any) Logger { return Global().With(keysAndValues...) }

// WithContext returns a child of the global logger enriched from ctx.
func WithContext(ctx context.Context) Logger { return Global().WithContext(ctx) }

// Named returns a named child of the global logger.
func Named(name string) Logger { return Global().Named(name) }

// Sync flushes the global logger.
func Sync() error { return Global().Sync() }
