package core

import (
	"context"

	"github.com/elcfinder/elcfinder/core/algo"
)

// Context keys for ranking options
type contextKey string

const (
	skipHistoryKey contextKey = "skipHistory"
	insightFuncKey contextKey = "insightFunc"
)

// WithoutHistory marks the context so ranking runs are not recorded.
// Long-running servers use this to keep per-request rankings out of history.
func WithoutHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipHistoryKey, true)
}

// shouldSkipHistory returns whether history recording is disabled for this context
func shouldSkipHistory(ctx context.Context) bool {
	val := ctx.Value(skipHistoryKey)
	if val == nil {
		return false // default: record history
	}
	skip, ok := val.(bool)
	return ok && skip
}

// WithInsightFunc sets the insight formatter used by ExecuteInsight.
func WithInsightFunc(ctx context.Context, fn algo.InsightFunc) context.Context {
	return context.WithValue(ctx, insightFuncKey, fn)
}

// insightFromContext returns the insight formatter from context, or nil for the default
func insightFromContext(ctx context.Context) algo.InsightFunc {
	fn, _ := ctx.Value(insightFuncKey).(algo.InsightFunc)
	return fn
}
