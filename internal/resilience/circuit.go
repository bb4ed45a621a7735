package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned when a call is rejected because the circuit is
// open. Callers treat it like any other search failure: the lead degrades to
// unresolved instead of the batch stalling on a dead API.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreaker trips after a run of consecutive failures and rejects calls
// until a reset timeout elapses, after which a single probe is allowed.
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration

	mu                  sync.Mutex
	consecutiveFailures int
	lastFailure         time.Time
	open                bool

	nowFunc func() time.Time
}

// NewCircuitBreaker creates a breaker that opens after failureThreshold
// consecutive failures and allows a probe after resetTimeout.
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		nowFunc:          time.Now,
	}
}

// ExecuteVal runs fn through the breaker, preserving its return value.
func ExecuteVal[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !cb.allow() {
		return zero, ErrCircuitOpen
	}
	val, err := fn(ctx)
	cb.record(err)
	return val, err
}

// Open reports whether the breaker is currently rejecting calls.
func (cb *CircuitBreaker) Open() bool {
	return !cb.allow()
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return true
	}
	// Half-open probe after the reset window.
	return cb.nowFunc().Sub(cb.lastFailure) >= cb.resetTimeout
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.consecutiveFailures = 0
		cb.open = false
		return
	}

	cb.consecutiveFailures++
	cb.lastFailure = cb.nowFunc()
	if cb.consecutiveFailures >= cb.failureThreshold {
		cb.open = true
	}
}
