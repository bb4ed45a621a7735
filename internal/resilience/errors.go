// Package resilience provides retry, circuit breaker, failure classification,
// and deadline-bounded execution for the pipeline's network-facing components.
package resilience

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Failure reason codes shared by the deep validator's terminal states and the
// fail-reason histogram.
const (
	ReasonTimeout           = "timeout"
	ReasonSSLError          = "ssl_error"
	ReasonNotFound          = "404_not_found"
	ReasonForbidden         = "403_forbidden"
	ReasonConnectionReset   = "connection_reset"
	ReasonConnectionRefused = "connection_refused"
	ReasonCloudflare        = "cloudflare"
	ReasonUnknown           = "unknown_error"
	ReasonAllAttemptsFailed = "all_attempts_failed"
)

// ClassifyFetchError maps a transport-level error to a failure reason code.
// HTTP-status and challenge-page reasons are assigned by the fetcher, which
// sees the response.
func ClassifyFetchError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return ReasonSSLError
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return ReasonSSLError
	}

	if errors.Is(err, syscall.ECONNRESET) {
		return ReasonConnectionReset
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonConnectionRefused
	}

	// Wrapped errors from HTTP clients lose their typed chain; fall back to
	// message heuristics.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return ReasonConnectionRefused
	case strings.Contains(msg, "connection reset"):
		return ReasonConnectionReset
	case strings.Contains(msg, "tls") || strings.Contains(msg, "x509") || strings.Contains(msg, "certificate"):
		return ReasonSSLError
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return ReasonTimeout
	}

	return ReasonUnknown
}

// IsTransient reports whether an error is safe to retry: network timeouts,
// resets, DNS hiccups, or an explicitly transient HTTP status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus reports whether an HTTP status is worth retrying.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
