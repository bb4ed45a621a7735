package resilience

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassifyFetchError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, ReasonTimeout},
		{"net timeout", timeoutErr{}, ReasonTimeout},
		{"refused", syscall.ECONNREFUSED, ReasonConnectionRefused},
		{"reset", syscall.ECONNRESET, ReasonConnectionReset},
		{"wrapped refused", eris.New("dial tcp 1.2.3.4:443: connect: connection refused"), ReasonConnectionRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), ReasonSSLError},
		{"mystery", errors.New("something else entirely"), ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ClassifyFetchError(tt.err))
		})
	}
}

func TestDoVal_RetriesTransient(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

	val, err := DoVal(context.Background(), cfg, func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", timeoutErr{}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, attempts)
}

func TestDoVal_NoRetryOnPermanent(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	_, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("permanent failure")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)
	fail := func(context.Context) (int, error) { return 0, errors.New("boom") }

	_, _ = ExecuteVal(context.Background(), cb, fail)
	assert.False(t, cb.Open())
	_, _ = ExecuteVal(context.Background(), cb, fail)
	assert.True(t, cb.Open())

	_, err := ExecuteVal(context.Background(), cb, fail)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	base := time.Now()
	cb.nowFunc = func() time.Time { return base }

	_, _ = ExecuteVal(context.Background(), cb, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	assert.True(t, cb.Open())

	// After the reset window a probe is allowed; success closes the breaker.
	cb.nowFunc = func() time.Time { return base.Add(20 * time.Millisecond) }
	val, err := ExecuteVal(context.Background(), cb, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.False(t, cb.Open())
}

func TestRunBounded_CompletesInTime(t *testing.T) {
	err := RunBounded(context.Background(), time.Second, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestRunBounded_DeadlineExceeded(t *testing.T) {
	start := time.Now()
	err := RunBounded(context.Background(), 20*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRunBounded_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunBounded(ctx, time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
