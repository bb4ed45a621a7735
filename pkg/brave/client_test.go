package brave

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "abc tekstil official website", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"ABC Tekstil","url":"https://abc-tekstil.com","description":"Dyeing and finishing"},
			{"title":"ABC on Alibaba","url":"https://alibaba.com/abc","description":"supplier profile"}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	results, err := c.Search(context.Background(), "abc tekstil official website", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://abc-tekstil.com", results[0].URL)
}

func TestSearch_SingleAttemptPerCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q", 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "retry policy belongs to the caller")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"throttled", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"server error", &StatusError{Code: http.StatusInternalServerError}, true},
		{"bad gateway", &StatusError{Code: http.StatusBadGateway}, true},
		{"unavailable", &StatusError{Code: http.StatusServiceUnavailable}, true},
		{"unauthorized", &StatusError{Code: http.StatusUnauthorized}, false},
		{"not found", &StatusError{Code: http.StatusNotFound}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestSearch_FatalStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q", 1)
	assert.Error(t, err)
	assert.False(t, IsRetryable(err))
}
