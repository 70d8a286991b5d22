// Package hooks contains bun query hooks.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

var _ bun.QueryHook = (*QueryLogHook)(nil)

// QueryLogHook logs failed and slow queries, and every query when verbose.
type QueryLogHook struct {
	logger        logger.Logger
	verbose       bool
	slowThreshold time.Duration
}

type Option func(*QueryLogHook)

// WithVerbose logs successful queries at debug level too.
func WithVerbose(verbose bool) Option {
	return func(h *QueryLogHook) {
		h.verbose = verbose
	}
}

// WithSlowQueryThreshold sets the duration from which a query is logged at warn.
// Zero disables slow query detection.
func WithSlowQueryThreshold(threshold time.Duration) Option {
	return func(h *QueryLogHook) {
		h.slowThreshold = threshold
	}
}

func NewQueryLogHook(log logger.Logger, opts ...Option) *QueryLogHook {
	h := &QueryLogHook{
		logger:        log.Named("bun"),
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *QueryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	// No rows and finished transactions are expected outcomes, not failures.
	failed := event.Err != nil &&
		!errors.Is(event.Err, sql.ErrNoRows) &&
		!errors.Is(event.Err, sql.ErrTxDone)
	slow := h.slowThreshold > 0 && duration >= h.slowThreshold

	if !failed && !slow && !h.verbose {
		return
	}

	log := h.logger.
		WithContext(ctx).
		With("query", strings.ReplaceAll(event.Query, `"`, "")).
		With("duration", duration.Round(time.Microsecond).String())

	switch {
	case failed:
		log.With(logger.ErrorFields(event.Err)...).Error("query failed: " + event.Operation())
	case slow:
		log.Warn("slow query: " + event.Operation())
	default:
		log.Debug("query: " + event.Operation())
	}
}
