// Package brave provides a client for the Brave web search API.
package brave

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the web search operations the pipeline consumes.
type Client interface {
	// Search performs a web search and returns up to count results.
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// Result is a single search hit.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// searchResponse mirrors the relevant slice of the Brave API payload.
type searchResponse struct {
	Web struct {
		Results []Result `json:"results"`
	} `json:"web"`
}

// Option configures the Brave client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *httpClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Brave search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.search.brave.com/res/v1",
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for non-200 API responses so callers can decide
// which statuses are worth retrying.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "brave: status " + strconv.Itoa(e.Code)
}

// IsRetryable reports whether err is a throttle or upstream blip that a
// retry may clear.
func IsRetryable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusTooManyRequests ||
		se.Code == http.StatusInternalServerError ||
		se.Code == http.StatusBadGateway ||
		se.Code == http.StatusServiceUnavailable
}

// Search performs a single request; retry policy belongs to the caller.
func (c *httpClient) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if count <= 0 {
		count = 10
	}

	reqURL := c.baseURL + "/web/search?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "brave: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "brave: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, eris.Wrap(err, "brave: decode response")
	}
	return parsed.Web.Results, nil
}
