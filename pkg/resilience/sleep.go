package resilience

import (
	"context"
	"time"
)

// SleepContext waits for delay or returns false early if ctx is done.
func SleepContext(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// LinearBackoff returns base*attempt with attempt clamped to [1, maxAttempt].
func LinearBackoff(base time.Duration, attempt, maxAttempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if maxAttempt > 0 && attempt > maxAttempt {
		attempt = maxAttempt
	}
	return base * time.Duration(attempt)
}
