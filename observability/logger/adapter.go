package logger

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/robfig/cron/v3"
)

var (
	_ watermill.LoggerAdapter = (*WatermillAdapter)(nil)
	_ cron.Logger             = (*CronAdapter)(nil)
)

// WatermillAdapter exposes a Logger as a watermill.LoggerAdapter.
// Watermill's trace level maps to debug.
type WatermillAdapter struct {
	base Logger
}

// NewWatermillAdapter returns an adapter writing through base.
func NewWatermillAdapter(base Logger) *WatermillAdapter {
	return &WatermillAdapter{base: base}
}

func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l := a.withFields(fields)
	if err != nil {
		l = l.With(ErrorFields(err)...)
	}
	l.Error(msg)
}

func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.withFields(fields).Info(msg)
}

func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.withFields(fields).Debug(msg)
}

func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.withFields(fields).Debug(msg)
}

func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{base: a.withFields(fields)}
}

func (a *WatermillAdapter) withFields(fields watermill.LogFields) Logger {
	if len(fields) == 0 {
		return a.base
	}
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return a.base.With(kv...)
}

// CronAdapter exposes a Logger as a cron.Logger.
type CronAdapter struct {
	base Logger
}

// NewCronAdapter returns an adapter writing through base.
func NewCronAdapter(base Logger) *CronAdapter {
	return &CronAdapter{base: base}
}

// Info is used by cron for routine scheduling chatter, so it goes to debug.
func (a *CronAdapter) Info(msg string, keysAndValues ...any) {
	a.base.With(keysAndValues...).Debug(msg)
}

func (a *CronAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.base.With(keysAndValues...).With(ErrorFields(err)...).Error(msg)
}
