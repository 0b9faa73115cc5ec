package core

import (
	"context"

	"github.com/huangsam/botscan/internal/contract"
)

// Context keys for evaluation options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runIDKey          contextKey = "runID"
	storeManagerKey   contextKey = "storeManager"
)

// WithSuppressHeader sets whether headers should be suppressed in the context
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withRunID stores the history run that verdicts are recorded under.
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the history run from context, if one was started.
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false
	}
	runID, ok := val.(int64)
	return runID, ok
}

// contextWithStoreManager stores the manager for use in worker goroutines.
func contextWithStoreManager(ctx context.Context, mgr contract.StoreManager) context.Context {
	return context.WithValue(ctx, storeManagerKey, mgr)
}

// storeManagerFromContext returns the manager stored in context, or nil.
func storeManagerFromContext(ctx context.Context) contract.StoreManager {
	mgr, _ := ctx.Value(storeManagerKey).(contract.StoreManager)
	return mgr
}
