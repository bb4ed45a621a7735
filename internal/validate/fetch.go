// Package validate is the deep validator: it fetches each lead's live
// website, scans key pages for machine and process evidence, extracts
// contacts, and assigns the final tier.
package validate

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/resilience"
)

const maxBodyBytes = 512 * 1024

// FetchResult is a successfully fetched page.
type FetchResult struct {
	URL        string
	Body       []byte
	StatusCode int
}

// Fetcher fetches pages with failure-reason classification and a plain-HTTP
// fallback for TLS and Cloudflare failures.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with sensible connect/read timeouts.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Fetch retrieves a URL. On failure it returns a reason code from the
// enumerated set in internal/resilience. An ssl_error or cloudflare failure
// on an HTTPS URL is retried once over plain HTTP before giving up with
// all_attempts_failed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, string, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	res, reason, err := f.attempt(ctx, rawURL)
	if err == nil {
		return res, "", nil
	}

	if (reason == resilience.ReasonSSLError || reason == resilience.ReasonCloudflare) &&
		strings.HasPrefix(rawURL, "https://") {
		httpURL := "http://" + strings.TrimPrefix(rawURL, "https://")
		zap.L().Debug("retrying over plain http",
			zap.String("url", httpURL), zap.String("reason", reason))

		res, _, retryErr := f.attempt(ctx, httpURL)
		if retryErr == nil {
			return res, "", nil
		}
		return nil, resilience.ReasonAllAttemptsFailed,
			eris.Wrapf(retryErr, "validate: fetch %s (https failed: %s)", httpURL, reason)
	}

	return nil, reason, err
}

func (f *Fetcher) attempt(ctx context.Context, rawURL string) (*FetchResult, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, resilience.ReasonUnknown, eris.Wrap(err, "validate: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; LeadgenBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, resilience.ClassifyFetchError(err), eris.Wrapf(err, "validate: fetch %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resilience.ClassifyFetchError(err), eris.Wrapf(err, "validate: read body %s", rawURL)
	}

	if isCloudflareChallenge(resp, body) {
		return nil, resilience.ReasonCloudflare, eris.Errorf("validate: cloudflare challenge at %s", rawURL)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, resilience.ReasonNotFound, eris.Errorf("validate: status 404 at %s", rawURL)
	case resp.StatusCode == http.StatusForbidden:
		return nil, resilience.ReasonForbidden, eris.Errorf("validate: status 403 at %s", rawURL)
	case resp.StatusCode >= 400:
		return nil, resilience.ReasonUnknown, eris.Errorf("validate: status %d at %s", resp.StatusCode, rawURL)
	}

	return &FetchResult{URL: rawURL, Body: body, StatusCode: resp.StatusCode}, "", nil
}

// isCloudflareChallenge detects an interstitial challenge page: cf headers on
// a 403/503, or a short body carrying challenge markers.
func isCloudflareChallenge(resp *http.Response, body []byte) bool {
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("server") == "cloudflare" {
			return true
		}
	}

	if len(body) >= 4096 {
		return false
	}
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		(strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge"))
}
