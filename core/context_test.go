package core

import (
	"context"
	"sync"
	"testing"

	"github.com/huangsam/botscan/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	_, ok := getRunID(ctx)
	assert.False(t, ok)
	assert.Nil(t, storeManagerFromContext(ctx))

	mgr := &store.MockStoreManager{}
	ctx = WithSuppressHeader(ctx)
	ctx = withRunID(ctx, 42)
	ctx = contextWithStoreManager(ctx, mgr)

	assert.True(t, shouldSuppressHeader(ctx))
	runID, ok := getRunID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), runID)
	assert.Same(t, mgr, storeManagerFromContext(ctx))
}

// TestContextConcurrentAccess tests that context values can be safely read from workers.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(WithSuppressHeader(context.Background()), 12345)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			runID, ok := getRunID(ctx)
			assert.True(t, ok)
			assert.Equal(t, int64(12345), runID)
			assert.True(t, shouldSuppressHeader(ctx))
		})
	}
	wg.Wait()
}
