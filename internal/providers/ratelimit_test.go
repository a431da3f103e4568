package providers

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(60)
		ctx := context.Background()

		for i := 0; i < 10; i++ {
			if err := limiter.Wait(ctx); err != nil {
				t.Fatalf("unexpected error on request %d: %v", i, err)
			}
		}
	})

	t.Run("blocks when exhausted", func(t *testing.T) {
		limiter := NewRateLimiter(60) // 1 token per second after the bucket drains
		limiter.tokens = 0

		ctx := context.Background()
		start := time.Now()
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
			t.Errorf("expected to wait for refill, waited only %v", elapsed)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		limiter.tokens = 0

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := limiter.Wait(ctx); err != context.DeadlineExceeded {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		limiter := NewRateLimiter(0)
		if limiter.requestsPerMinute <= 0 {
			t.Error("expected permissive default limit")
		}
	})
}
