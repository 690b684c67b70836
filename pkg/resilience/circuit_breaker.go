package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitOpenError reports circuit-open status with a concrete retry delay.
type CircuitOpenError struct {
	Name       string
	RetryAfter time.Duration
}

func (e *CircuitOpenError) Error() string {
	retryAfter := e.RetryAfter
	if retryAfter < 0 {
		retryAfter = 0
	}
	if e.Name == "" {
		return fmt.Sprintf("%v: retry in %s", ErrCircuitOpen, retryAfter)
	}
	return fmt.Sprintf("%v for %s: retry in %s", ErrCircuitOpen, e.Name, retryAfter)
}

func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

type CircuitBreakerState string

const (
	CircuitClosed   CircuitBreakerState = "closed"
	CircuitOpen     CircuitBreakerState = "open"
	CircuitHalfOpen CircuitBreakerState = "half_open"
)

// CircuitBreakerConfig configures a breaker. Zero values fall back to defaults.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration

	// OnStateChange is called with the lock released after every transition.
	OnStateChange func(name string, from, to CircuitBreakerState)

	// Now overrides the time source, mainly for tests.
	Now func() time.Time
}

// CircuitBreaker stops calling a failing dependency for OpenTimeout after
// FailureThreshold consecutive failures, then lets a single probe through.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state        CircuitBreakerState
	failureCount int
	successCount int
	openUntil    time.Time
	probing      bool
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &CircuitBreaker{
		cfg:   cfg,
		state: CircuitClosed,
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	from := cb.state
	cb.refreshStateLocked(cb.cfg.Now())
	to := cb.state
	cb.mu.Unlock()

	cb.notify(from, to)
	return to
}

// Execute runs fn unless the circuit is open. Context cancellation is not counted as a failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := fn(ctx)

	switch {
	case errors.Is(err, context.Canceled):
		cb.afterCanceled()
	case err != nil:
		cb.record(false)
	default:
		cb.record(true)
	}
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	now := cb.cfg.Now()
	from := cb.state
	cb.refreshStateLocked(now)
	to := cb.state

	var err error
	switch cb.state {
	case CircuitOpen:
		err = cb.openErrLocked(now)
	case CircuitHalfOpen:
		if cb.probing {
			err = cb.openErrLocked(now)
		} else {
			cb.probing = true
		}
	}
	cb.mu.Unlock()

	cb.notify(from, to)
	return err
}

func (cb *CircuitBreaker) record(success bool) {
	cb.mu.Lock()
	from := cb.state

	switch {
	case cb.state == CircuitHalfOpen && success:
		cb.probing = false
		cb.successCount++
		if cb.successCount >= cb.cfg.SuccessThreshold {
			cb.resetLocked(CircuitClosed)
		}
	case cb.state == CircuitHalfOpen:
		cb.tripLocked()
	case success:
		cb.failureCount = 0
	default:
		cb.failureCount++
		if cb.failureCount >= cb.cfg.FailureThreshold {
			cb.tripLocked()
		}
	}

	to := cb.state
	cb.mu.Unlock()

	cb.notify(from, to)
}

func (cb *CircuitBreaker) afterCanceled() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitHalfOpen {
		cb.probing = false
	}
}

func (cb *CircuitBreaker) refreshStateLocked(now time.Time) {
	if cb.state == CircuitOpen && !now.Before(cb.openUntil) {
		cb.resetLocked(CircuitHalfOpen)
	}
}

func (cb *CircuitBreaker) tripLocked() {
	cb.resetLocked(CircuitOpen)
	cb.openUntil = cb.cfg.Now().Add(cb.cfg.OpenTimeout)
}

func (cb *CircuitBreaker) resetLocked(state CircuitBreakerState) {
	cb.state = state
	cb.failureCount = 0
	cb.successCount = 0
	cb.probing = false
}

func (cb *CircuitBreaker) openErrLocked(now time.Time) error {
	remaining := cb.openUntil.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return &CircuitOpenError{
		Name:       cb.cfg.Name,
		RetryAfter: remaining,
	}
}

func (cb *CircuitBreaker) notify(from, to CircuitBreakerState) {
	if from != to && cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, from, to)
	}
}
