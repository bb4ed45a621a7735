package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparetex/leadgen-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_SearchCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetSearch(ctx, `"abc tekstil" official website`)
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`[{"title":"ABC Tekstil","url":"https://abctekstil.com.tr"}]`)
	require.NoError(t, s.SetSearch(ctx, `"abc tekstil" official website`, payload, time.Hour))

	got, ok, err := s.GetSearch(ctx, `"abc tekstil" official website`)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestSQLite_SearchCacheExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSearch(ctx, "stale query", []byte(`[]`), -time.Minute))

	_, ok, err := s.GetSearch(ctx, "stale query")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries must not be served")

	n, err := s.DeleteExpiredSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_SearchCacheOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSearch(ctx, "q", []byte(`old`), time.Hour))
	require.NoError(t, s.SetSearch(ctx, "q", []byte(`new`), time.Hour))

	got, ok, err := s.GetSearch(ctx, "q")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`new`), got)
}

func TestSQLite_RunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	require.NoError(t, s.UpdateRun(ctx, run.ID, model.RunStatusComplete, 42))

	err = s.UpdateRun(ctx, "no-such-run", model.RunStatusFailed, 0)
	assert.Error(t, err)
}

func TestSQLite_CheckpointRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)

	got, err := s.LoadCheckpoint(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "missing checkpoint loads as nil, not an error")

	require.NoError(t, s.SaveCheckpoint(ctx, run.ID, []byte(`{"processed":10}`)))
	require.NoError(t, s.SaveCheckpoint(ctx, run.ID, []byte(`{"processed":20}`)))

	got, err = s.LoadCheckpoint(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"processed":20}`), got)
}
