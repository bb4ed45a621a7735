package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
)

// ErrDeadlineExceeded is returned by RunBounded when the wall-clock ceiling
// elapses before fn returns.
var ErrDeadlineExceeded = eris.New("bounded task: deadline exceeded")

// RunBounded executes fn with a hard wall-clock ceiling, independent of any
// inner HTTP timeouts, because HTML parsing or multi-page crawling can itself
// hang. fn runs on its own goroutine and receives a context cancelled at the
// ceiling; if it does not return in time the caller abandons it and moves on.
// An abandoned fn keeps its goroutine until it notices the cancellation —
// fn must therefore be context-aware for prompt cleanup.
func RunBounded(ctx context.Context, ceiling time.Duration, fn func(ctx context.Context) error) error {
	boundedCtx, cancel := context.WithTimeout(ctx, ceiling)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(boundedCtx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrDeadlineExceeded
		}
		return err
	case <-boundedCtx.Done():
		if ctx.Err() != nil {
			// Caller cancelled; propagate as-is.
			return ctx.Err()
		}
		return ErrDeadlineExceeded
	}
}
