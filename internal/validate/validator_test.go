package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/resilience"
	"github.com/sparetex/leadgen-cli/internal/store"
)

func testValidator(opts Options) *Validator {
	return NewValidator(keywords.NewMatcher(nil), opts)
}

func millSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
		<p>Vertical mill running Monforts stenter lines for heat setting.</p>
		<a href="/contact">Contact</a>
		</body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Write to info@abctekstil.com.tr or call +1 650-253-0000.</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_StatusReasons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/blocked":
			w.WriteHeader(http.StatusForbidden)
		case "/challenge":
			fmt.Fprint(w, "Checking your browser before accessing the site")
		default:
			fmt.Fprint(w, "<html><body>ok</body></html>")
		}
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(5 * time.Second)

	res, reason, err := f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Empty(t, reason)
	assert.Equal(t, 200, res.StatusCode)

	_, reason, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
	assert.Equal(t, resilience.ReasonNotFound, reason)

	_, reason, err = f.Fetch(context.Background(), srv.URL+"/blocked")
	assert.Error(t, err)
	assert.Equal(t, resilience.ReasonForbidden, reason)

	_, reason, err = f.Fetch(context.Background(), srv.URL+"/challenge")
	assert.Error(t, err)
	assert.Equal(t, resilience.ReasonCloudflare, reason)
}

func TestFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	f := NewFetcher(5 * time.Second)
	_, reason, err := f.Fetch(context.Background(), deadURL)
	assert.Error(t, err)
	assert.Equal(t, resilience.ReasonConnectionRefused, reason)
}

func TestFetcher_TLSFailureFallsBackToHTTP(t *testing.T) {
	// A TLS-only server with an untrusted cert: the HTTPS attempt fails with
	// ssl_error, the plain-HTTP fallback cannot connect either, and the
	// combined failure reports all_attempts_failed.
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	f := NewFetcher(5 * time.Second)
	_, reason, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Equal(t, resilience.ReasonAllAttemptsFailed, reason)
}

func TestValidator_NoWebsite(t *testing.T) {
	lead := model.Lead{Company: "ABC Tekstil"}
	testValidator(Options{}).Validate(context.Background(), &lead)

	assert.Equal(t, model.StatusNoWebsite, lead.ValidationStatus)
	assert.Equal(t, 3, lead.Tier)
}

func TestValidator_InaccessibleWebsite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	lead := model.Lead{Company: "Dead Mill", Website: deadURL}
	testValidator(Options{}).Validate(context.Background(), &lead)

	assert.Equal(t, model.StatusWebsiteInaccessible+":"+resilience.ReasonConnectionRefused, lead.ValidationStatus)
	assert.Equal(t, resilience.ReasonConnectionRefused, lead.FailReason)
	assert.False(t, lead.WebsiteAccessible)
	assert.Equal(t, 3, lead.Tier)
}

func TestValidator_FullCrawl(t *testing.T) {
	srv := millSite(t)

	lead := model.Lead{Company: "ABC Tekstil", Country: "USA", Website: srv.URL}
	testValidator(Options{}).Validate(context.Background(), &lead)

	assert.Equal(t, model.StatusValidated, lead.ValidationStatus)
	assert.True(t, lead.WebsiteAccessible)
	assert.Equal(t, 1, lead.Tier, "OEM brand on a reachable site is Tier 1")

	assert.Contains(t, lead.OEMSignals, "monforts")
	assert.Contains(t, lead.FinishingSignals, "stenter")
	assert.Contains(t, lead.Emails, "info@abctekstil.com.tr")
	assert.Contains(t, lead.Phones, "+16502530000")

	require.NotEmpty(t, lead.EvidenceDetails)
	for _, d := range lead.EvidenceDetails {
		assert.True(t, strings.HasPrefix(d.URL, srv.URL), "on-site evidence must carry its page URL")
	}
}

func TestValidator_HardTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	lead := model.Lead{Company: "Slow Mill", Website: srv.URL}
	start := time.Now()
	testValidator(Options{HardTimeout: 100 * time.Millisecond}).Validate(context.Background(), &lead)

	assert.Equal(t, model.StatusHardTimeout, lead.ValidationStatus)
	assert.Equal(t, 3, lead.Tier)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBatchValidator_HistogramAndCheckpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	run, err := s.CreateRun(context.Background())
	require.NoError(t, err)

	b := NewBatchValidator(testValidator(Options{}), s, BatchOptions{CheckpointEvery: 1})
	leads := []model.Lead{
		{Company: "Dead Mill", Website: deadURL},
		{Company: "No Site Mill"},
	}

	result, err := b.Run(context.Background(), run.ID, leads)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FailReasons[resilience.ReasonConnectionRefused])
	assert.Equal(t, 2, result.TierCounts[3])

	cp, err := b.Resume(context.Background(), run.ID)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 2, cp.Processed)
	assert.Len(t, cp.Leads, 2)
}

func TestBatchValidator_CancellationStopsBetweenLeads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchValidator(testValidator(Options{}), nil, BatchOptions{})
	_, err := b.Run(ctx, "run", []model.Lead{{Company: "A"}, {Company: "B"}})
	assert.ErrorIs(t, err, context.Canceled)
}
