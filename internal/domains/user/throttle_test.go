package user

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/infrastructure/cache"
)

func newThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := cache.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })
	return NewLoginThrottle(rc, max, window), mr
}

func TestLoginThrottle(t *testing.T) {
	th, mr := newThrottle(t, 2, 5*time.Minute)
	ctx := context.Background()

	ok, _ := th.Attempt(ctx, "Reader@Books.io")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Minute, mr.TTL("failed_login:reader@books.io"))

	mr.FastForward(time.Minute)
	ok, _ = th.Attempt(ctx, "reader@books.io ")
	assert.True(t, ok)
	assert.Equal(t, 4*time.Minute, mr.TTL("failed_login:reader@books.io"), "window starts at the first attempt")

	ok, retryAfter := th.Attempt(ctx, "reader@books.io")
	assert.False(t, ok)
	assert.Equal(t, 4*time.Minute, retryAfter)

	th.Reset(ctx, "reader@books.io")
	ok, _ = th.Attempt(ctx, "reader@books.io")
	assert.True(t, ok)
}

func TestLoginThrottle_ConcurrentAttemptsStopAtLimit(t *testing.T) {
	th, _ := newThrottle(t, 3, time.Minute)
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := th.Attempt(ctx, "reader@books.io"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), allowed.Load())
}

func TestLoginThrottle_Nil(t *testing.T) {
	var th *LoginThrottle
	ctx := context.Background()

	ok, retryAfter := th.Attempt(ctx, "a@b.io")
	require.True(t, ok)
	assert.Zero(t, retryAfter)
	assert.NotPanics(t, func() { th.Reset(ctx, "a@b.io") })
}
