package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/commission-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS match_results (
	company    TEXT NOT NULL,
	source     TEXT NOT NULL,
	candidate  TEXT,
	tier       TEXT NOT NULL,
	ambiguous  BOOLEAN NOT NULL DEFAULT FALSE,
	tied_with  JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id        BIGSERIAL PRIMARY KEY,
	company   TEXT NOT NULL,
	author_id TEXT NOT NULL,
	ts        TIMESTAMPTZ NOT NULL,
	text      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attribution_runs (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'running',
	companies  INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attribution_records (
	run_id  TEXT NOT NULL REFERENCES attribution_runs(id),
	company TEXT NOT NULL,
	raw     JSONB NOT NULL,
	rounded JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_company ON messages(company);
CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages(ts);
CREATE INDEX IF NOT EXISTS idx_attribution_records_run ON attribution_records(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveMatchResults(ctx context.Context, results []model.MatchResult) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM match_results`); err != nil {
		return eris.Wrap(err, "postgres: clear match results")
	}
	for _, r := range results {
		tiedJSON, err := json.Marshal(r.TiedWith)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal tied_with")
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO match_results (company, source, candidate, tier, ambiguous, tied_with) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.Company, string(r.Source), r.Candidate, r.Tier.String(), r.Ambiguous, string(tiedJSON),
		); err != nil {
			return eris.Wrap(err, "postgres: insert match result")
		}
	}
	return nil
}

func (s *PostgresStore) ListMatchResults(ctx context.Context) ([]model.MatchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company, source, candidate, tier, ambiguous, tied_with FROM match_results ORDER BY company, source`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list match results")
	}
	defer rows.Close()

	var results []model.MatchResult
	for rows.Next() {
		var r model.MatchResult
		var source, tier string
		var tiedJSON []byte
		if err := rows.Scan(&r.Company, &source, &r.Candidate, &tier, &r.Ambiguous, &tiedJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan match result")
		}
		r.Source = model.SourceKind(source)
		r.Tier = parseTier(tier)
		if len(tiedJSON) > 0 {
			if err := json.Unmarshal(tiedJSON, &r.TiedWith); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal tied_with")
			}
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: iterate match results")
}

func (s *PostgresStore) InsertMessages(ctx context.Context, messages []model.Message) error {
	for _, m := range messages {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO messages (company, author_id, ts, text) VALUES ($1, $2, $3, $4)`,
			m.Company, m.AuthorID, m.Timestamp.UTC(), m.Text,
		); err != nil {
			return eris.Wrap(err, "postgres: insert message")
		}
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company, author_id, ts, text FROM messages ORDER BY ts, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list messages")
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.Company, &m.AuthorID, &m.Timestamp, &m.Text); err != nil {
			return nil, eris.Wrap(err, "postgres: scan message")
		}
		messages = append(messages, m)
	}
	return messages, eris.Wrap(rows.Err(), "postgres: iterate messages")
}

func (s *PostgresStore) CreateRun(ctx context.Context) (*model.AttributionRun, error) {
	run := &model.AttributionRun{
		ID:        uuid.New().String(),
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO attribution_runs (id, status, companies, created_at, updated_at) VALUES ($1, $2, 0, $3, $4)`,
		run.ID, string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, companies int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE attribution_runs SET status = $1, companies = $2, updated_at = $3 WHERE id = $4`,
		string(status), companies, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.AttributionRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, status, companies, created_at, updated_at FROM attribution_runs ORDER BY created_at DESC, id LIMIT 1`)

	var run model.AttributionRun
	var status string
	err := row.Scan(&run.ID, &status, &run.Companies, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest run")
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

func (s *PostgresStore) SaveAttributionRecords(ctx context.Context, runID string, records []model.AttributionRecord) error {
	for _, rec := range records {
		rawJSON, err := json.Marshal(rec.RawPercent)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal raw percent")
		}
		roundedJSON, err := json.Marshal(rec.RoundedPercent)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal rounded percent")
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO attribution_records (run_id, company, raw, rounded) VALUES ($1, $2, $3, $4)`,
			runID, rec.Company, string(rawJSON), string(roundedJSON),
		); err != nil {
			return eris.Wrap(err, "postgres: insert attribution record")
		}
	}
	return nil
}

func (s *PostgresStore) ListAttributionRecords(ctx context.Context, runID string) ([]model.AttributionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company, raw, rounded FROM attribution_records WHERE run_id = $1 ORDER BY company`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list attribution records")
	}
	defer rows.Close()

	var records []model.AttributionRecord
	for rows.Next() {
		var rec model.AttributionRecord
		var rawJSON, roundedJSON []byte
		if err := rows.Scan(&rec.Company, &rawJSON, &roundedJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan attribution record")
		}
		if err := json.Unmarshal(rawJSON, &rec.RawPercent); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal raw percent")
		}
		if err := json.Unmarshal(roundedJSON, &rec.RoundedPercent); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal rounded percent")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate attribution records")
}
