package resilience

import (
	"context"
	"testing"
	"time"
)

func TestSleepContext(t *testing.T) {
	if !SleepContext(context.Background(), time.Millisecond) {
		t.Fatalf("expected sleep to complete")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if SleepContext(ctx, time.Minute) {
		t.Fatalf("expected canceled sleep to report false")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("canceled sleep took too long")
	}
	if SleepContext(ctx, 0) {
		t.Fatalf("expected zero sleep on canceled context to report false")
	}
}

func TestLinearBackoff(t *testing.T) {
	tests := []struct {
		attempt, max int
		want         time.Duration
	}{
		{attempt: 0, max: 3, want: 5 * time.Second},
		{attempt: 1, max: 3, want: 5 * time.Second},
		{attempt: 3, max: 3, want: 15 * time.Second},
		{attempt: 9, max: 3, want: 15 * time.Second},
		{attempt: 9, max: 0, want: 45 * time.Second},
	}

	for _, tt := range tests {
		if got := LinearBackoff(5*time.Second, tt.attempt, tt.max); got != tt.want {
			t.Errorf("LinearBackoff(attempt=%d, max=%d) = %s, want %s", tt.attempt, tt.max, got, tt.want)
		}
	}
}
