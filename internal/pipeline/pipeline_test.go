package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparetex/leadgen-cli/internal/config"
	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/store"
	"github.com/sparetex/leadgen-cli/pkg/brave"
)

type fakeSearchClient struct {
	results []brave.Result
}

func (f *fakeSearchClient) Search(_ context.Context, _ string, _ int) ([]brave.Result, error) {
	return f.results, nil
}

func testConfig() *config.Config {
	cfg, _ := config.Load()
	cfg.Search.RatePerSec = 1000
	cfg.Validate.HardTimeoutSecs = 10
	cfg.Validate.PageTimeoutSecs = 5
	return cfg
}

func TestProcess_Gates(t *testing.T) {
	p := New(testConfig(), nil, nil)

	tests := []struct {
		name   string
		lead   model.Lead
		reason string
	}{
		{"empty company", model.Lead{Company: ""}, RejectInvalidRecord},
		{"country is url", model.Lead{Company: "ABC Tekstil San Ve Tic", Country: "https://oeko-tex.com"}, RejectInvalidRecord},
		{"generic term", model.Lead{Company: "Textile"}, RejectNoise},
		{"country plus generic", model.Lead{Company: "Pakistan Textile"}, RejectNoise},
		{"nav artifact", model.Lead{Company: "View Basket"}, RejectNoise},
		{"label maker", model.Lead{Company: "Anadolu Etiket Ltd", Context: "woven labels and hang tags"}, RejectNonCustomer},
		{"machinery dealer", model.Lead{Company: "XYZ Makina Ltd", Context: "used machinery dealer and machine trading"}, RejectNonCustomer},
		{"trading house", model.Lead{Company: "XYZ Tekstil Ticaret Ltd", Context: "wholesale distributor and trading agency import export"}, RejectIntermediary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := tt.lead
			p.Process(context.Background(), &lead)
			assert.Equal(t, tt.reason, lead.RejectionReason)
		})
	}
}

func TestProcess_DirectoryURLIsNeverKept(t *testing.T) {
	p := New(testConfig(), nil, nil)

	lead := model.Lead{
		Company: "ABC Tekstil San Ve Tic",
		Country: "Turkey",
		Context: "dyeing and finishing mill",
		Website: "https://services.oeko-tex.com/profile/abc-tekstil",
	}
	p.Process(context.Background(), &lead)

	assert.Empty(t, lead.RejectionReason)
	assert.True(t, lead.DirectoryURLDetected)
	assert.Equal(t, "https://services.oeko-tex.com/profile/abc-tekstil", lead.OriginalDirectoryURL)
	assert.Empty(t, lead.Website, "a directory URL must never survive as the website")
}

func TestProcess_StaticScoringWithoutSearch(t *testing.T) {
	p := New(testConfig(), nil, nil)

	lead := model.Lead{
		Company: "ABC Tekstil San Ve Tic",
		Country: "Turkey",
		Context: "Monforts stenter line, dyeing and finishing mill",
	}
	p.Process(context.Background(), &lead)

	assert.Empty(t, lead.RejectionReason)
	assert.Equal(t, model.RoleCustomer, lead.Role)
	assert.Contains(t, lead.OEMSignals, "monforts")
	assert.Contains(t, lead.FinishingSignals, "stenter")
	assert.True(t, lead.SCE.SalesReady)
	assert.Greater(t, lead.SCE.Total, 0.0)
}

func TestRun_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
		<p>Integrated dyeing and finishing mill running Monforts stenter lines.</p>
		<a href="/contact">Contact</a>
		</body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>info@abctekstil.com.tr</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	search := &fakeSearchClient{results: []brave.Result{{
		Title:       "ABC Tekstil invests in Monforts stenter",
		Description: "heat setting capacity expansion at the dyeing plant",
		URL:         "https://news.example.com/abc-tekstil",
	}}}

	p := New(testConfig(), s, search)
	leads := []model.Lead{
		{
			Company:    "ABC Tekstil San Ve Tic",
			Country:    "Turkey",
			Context:    "dyeing and finishing mill",
			Website:    srv.URL,
			SourceType: model.SourceOekoTex,
		},
		{Company: "Textile"},
	}

	result, err := p.Run(context.Background(), leads)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Accepted, 1)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, RejectNoise, result.Rejected[0].RejectionReason)

	accepted := result.Accepted[0]
	assert.Equal(t, model.StatusValidated, accepted.ValidationStatus)
	assert.Equal(t, 1, accepted.Tier)
	assert.GreaterOrEqual(t, accepted.K1Count, 1, "trusted source and external snippet are K1")
	assert.GreaterOrEqual(t, accepted.K2Count, 1, "own-site evidence is K2")
	assert.True(t, accepted.IsGolden)
	require.Len(t, result.Golden, 1)

	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.TierCounts[1])
	assert.Equal(t, 1, result.Summary.RejectionCounts[RejectNoise])
	assert.NotEmpty(t, result.Summary.Render())
}

func TestRun_CancellationKeepsPartialState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(testConfig(), nil, nil)
	_, err := p.Run(ctx, []model.Lead{{Company: "ABC Tekstil San Ve Tic"}})
	assert.ErrorIs(t, err, context.Canceled)
}
