package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sparetex/leadgen-cli/internal/db"
	"github.com/sparetex/leadgen-cli/internal/model"
)

// PostgresStore implements Store using pgxpool. It additionally archives
// scored leads so repeat campaigns can diff against earlier batches.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_search":      `SELECT results FROM search_cache WHERE query = $1 AND expires_at > now()`,
	"set_search":      `INSERT INTO search_cache (query, results, cached_at, expires_at) VALUES ($1, $2, $3, $4) ON CONFLICT (query) DO UPDATE SET results = EXCLUDED.results, cached_at = EXCLUDED.cached_at, expires_at = EXCLUDED.expires_at`,
	"delete_expired":  `DELETE FROM search_cache WHERE expires_at <= now()`,
	"insert_run":      `INSERT INTO runs (id, status, leads, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
	"update_run":      `UPDATE runs SET status = $1, leads = $2, updated_at = $3 WHERE id = $4`,
	"save_checkpoint": `INSERT INTO checkpoints (run_id, data, updated_at) VALUES ($1, $2, $3) ON CONFLICT (run_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	"load_checkpoint": `SELECT data FROM checkpoints WHERE run_id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS search_cache (
	query      TEXT PRIMARY KEY,
	results    JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	status     TEXT NOT NULL DEFAULT 'running',
	leads      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checkpoints (
	run_id     TEXT PRIMARY KEY REFERENCES runs(id),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	company      TEXT NOT NULL,
	country      TEXT NOT NULL,
	website      TEXT,
	role         TEXT,
	entity_type  TEXT,
	tier         INTEGER,
	sce_total    DOUBLE PRECISION,
	sales_ready  BOOLEAN,
	is_golden    BOOLEAN,
	run_id       TEXT,
	scored_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (company, country)
);

CREATE INDEX IF NOT EXISTS idx_search_cache_expires_at ON search_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(tier);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetSearch(ctx context.Context, query string) ([]byte, bool, error) {
	var results []byte
	err := s.pool.QueryRow(ctx, "get_search", query).Scan(&results)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "postgres: get search")
	}
	return results, true, nil
}

func (s *PostgresStore) SetSearch(ctx context.Context, query string, results []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx, "set_search", query, results, now, now.Add(ttl))
	return eris.Wrap(err, "postgres: set search")
}

func (s *PostgresStore) DeleteExpiredSearches(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, "delete_expired")
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired searches")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateRun(ctx context.Context) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx, "insert_run", id, string(model.RunStatusRunning), 0, now, now)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRun(ctx context.Context, runID string, status model.RunStatus, leads int) error {
	tag, err := s.pool.Exec(ctx, "update_run", string(status), leads, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) SaveCheckpoint(ctx context.Context, runID string, data []byte) error {
	_, err := s.pool.Exec(ctx, "save_checkpoint", runID, data, time.Now().UTC())
	return eris.Wrapf(err, "postgres: save checkpoint %s", runID)
}

func (s *PostgresStore) LoadCheckpoint(ctx context.Context, runID string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "load_checkpoint", runID).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load checkpoint %s", runID)
	}
	return data, nil
}

// leadColumns is the column order used when archiving leads.
var leadColumns = []string{
	"company", "country", "website", "role", "entity_type",
	"tier", "sce_total", "sales_ready", "is_golden", "run_id", "scored_at",
}

// ArchiveLeads bulk-upserts scored leads keyed on (company, country) so the
// latest batch wins for a given company.
func (s *PostgresStore) ArchiveLeads(ctx context.Context, runID string, leads []model.Lead) (int64, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []any{
			l.Company, l.Country, l.Website, string(l.Role), string(l.EntityType),
			l.Tier, l.SCE.Total, l.SCE.SalesReady, l.IsGolden, runID, now,
		})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "leads",
		Columns:      leadColumns,
		ConflictKeys: []string{"company", "country"},
	}, rows)
}
