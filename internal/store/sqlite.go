package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/google/uuid"
	"github.com/sparetex/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS search_cache (
	query      TEXT PRIMARY KEY,
	results    TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'running',
	leads      INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS checkpoints (
	run_id     TEXT PRIMARY KEY REFERENCES runs(id),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_cache_expires_at ON search_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetSearch(ctx context.Context, query string) ([]byte, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT results FROM search_cache WHERE query = ? AND expires_at > ?`,
		query, time.Now().UTC(),
	)

	var results string
	err := row.Scan(&results)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get search")
	}
	return []byte(results), true, nil
}

func (s *SQLiteStore) SetSearch(ctx context.Context, query string, results []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_cache (query, results, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(query) DO UPDATE SET results = excluded.results,
		 cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		query, string(results), now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set search")
}

func (s *SQLiteStore) DeleteExpiredSearches(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM search_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired searches")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, leads, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		id, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateRun(ctx context.Context, runID string, status model.RunStatus, leads int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, leads = ?, updated_at = ? WHERE id = ?`,
		string(status), leads, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, runID string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (run_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		runID, string(data), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save checkpoint %s", runID)
}

func (s *SQLiteStore) LoadCheckpoint(ctx context.Context, runID string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM checkpoints WHERE run_id = ?`, runID,
	)

	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load checkpoint %s", runID)
	}
	return []byte(data), nil
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s %s not found", kind, id)
	}
	return nil
}
