package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}

func TestLimiter_DefaultBurst(t *testing.T) {
	assert.Equal(t, 5, NewLimiter(10, -1).burst)
	assert.Equal(t, 2, NewLimiter(10, 2).burst)
}

func TestLimiter_PerEndpoint(t *testing.T) {
	limiter := NewLimiter(1, 1)

	require.NoError(t, limiter.Wait(shortContext(t), "http://localhost:9000/?properties=x"))
	require.NoError(t, limiter.Wait(shortContext(t), "http://corenlp.internal:9000"), "other endpoint has its own budget")
	require.NoError(t, limiter.Wait(shortContext(t), "https://localhost:9000"), "scheme is part of the endpoint")
	assert.Equal(t, int64(0), limiter.Delayed())

	err := limiter.Wait(shortContext(t), "http://LOCALHOST:9000/other")
	assert.ErrorIs(t, err, context.DeadlineExceeded, "same endpoint shares its budget")
	assert.Equal(t, int64(1), limiter.Delayed())
}

func TestLimiter_WaitCountsDelays(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "http://localhost:9000"))
	assert.Equal(t, int64(0), limiter.Delayed())

	require.NoError(t, limiter.Wait(ctx, "http://localhost:9000"))
	assert.Equal(t, int64(1), limiter.Delayed())
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Wait(context.Background(), "http://localhost:9000"), "request %d", i)
	}
	assert.Equal(t, int64(0), limiter.Delayed())
}

func TestLimiter_BadURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	assert.Error(t, limiter.Wait(context.Background(), "http://[::1"))
}
