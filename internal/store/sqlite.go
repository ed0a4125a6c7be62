package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/commission-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "commission.db"
	}
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
CREATE TABLE IF NOT EXISTS match_results (
	company    TEXT NOT NULL,
	source     TEXT NOT NULL,
	candidate  TEXT,
	tier       TEXT NOT NULL,
	ambiguous  INTEGER NOT NULL DEFAULT 0,
	tied_with  TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS messages (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	company   TEXT NOT NULL,
	author_id TEXT NOT NULL,
	ts        DATETIME NOT NULL,
	text      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attribution_runs (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'running',
	companies  INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS attribution_records (
	run_id  TEXT NOT NULL REFERENCES attribution_runs(id),
	company TEXT NOT NULL,
	raw     TEXT NOT NULL,
	rounded TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_company ON messages(company);
CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages(ts);
CREATE INDEX IF NOT EXISTS idx_attribution_records_run ON attribution_records(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveMatchResults replaces the stored resolution snapshot.
func (s *SQLiteStore) SaveMatchResults(ctx context.Context, results []model.MatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_results`); err != nil {
		return eris.Wrap(err, "sqlite: clear match results")
	}
	for _, r := range results {
		tiedJSON, err := json.Marshal(r.TiedWith)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal tied_with")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_results (company, source, candidate, tier, ambiguous, tied_with) VALUES (?, ?, ?, ?, ?, ?)`,
			r.Company, string(r.Source), r.Candidate, r.Tier.String(), r.Ambiguous, string(tiedJSON),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert match result")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit match results")
}

func (s *SQLiteStore) ListMatchResults(ctx context.Context) ([]model.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, source, candidate, tier, ambiguous, tied_with FROM match_results ORDER BY company, source`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list match results")
	}
	defer rows.Close()

	var results []model.MatchResult
	for rows.Next() {
		var r model.MatchResult
		var source, tier, tiedJSON string
		if err := rows.Scan(&r.Company, &source, &r.Candidate, &tier, &r.Ambiguous, &tiedJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan match result")
		}
		r.Source = model.SourceKind(source)
		r.Tier = parseTier(tier)
		if tiedJSON != "" {
			if err := json.Unmarshal([]byte(tiedJSON), &r.TiedWith); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal tied_with")
			}
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: iterate match results")
}

func (s *SQLiteStore) InsertMessages(ctx context.Context, messages []model.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, m := range messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (company, author_id, ts, text) VALUES (?, ?, ?, ?)`,
			m.Company, m.AuthorID, m.Timestamp.UTC(), m.Text,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert message")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit messages")
}

func (s *SQLiteStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, author_id, ts, text FROM messages ORDER BY ts, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list messages")
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.Company, &m.AuthorID, &m.Timestamp, &m.Text); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan message")
		}
		messages = append(messages, m)
	}
	return messages, eris.Wrap(rows.Err(), "sqlite: iterate messages")
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.AttributionRun, error) {
	run := &model.AttributionRun{
		ID:        uuid.New().String(),
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attribution_runs (id, status, companies, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		run.ID, string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, companies int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attribution_runs SET status = ?, companies = ?, updated_at = ? WHERE id = ?`,
		string(status), companies, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.AttributionRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, companies, created_at, updated_at FROM attribution_runs ORDER BY created_at DESC, id LIMIT 1`)

	var run model.AttributionRun
	var status string
	err := row.Scan(&run.ID, &status, &run.Companies, &run.CreatedAt, &run.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest run")
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

func (s *SQLiteStore) SaveAttributionRecords(ctx context.Context, runID string, records []model.AttributionRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, rec := range records {
		rawJSON, err := json.Marshal(rec.RawPercent)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal raw percent")
		}
		roundedJSON, err := json.Marshal(rec.RoundedPercent)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal rounded percent")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attribution_records (run_id, company, raw, rounded) VALUES (?, ?, ?, ?)`,
			runID, rec.Company, string(rawJSON), string(roundedJSON),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert attribution record")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit attribution records")
}

func (s *SQLiteStore) ListAttributionRecords(ctx context.Context, runID string) ([]model.AttributionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, raw, rounded FROM attribution_records WHERE run_id = ? ORDER BY company`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list attribution records")
	}
	defer rows.Close()

	var records []model.AttributionRecord
	for rows.Next() {
		var rec model.AttributionRecord
		var rawJSON, roundedJSON string
		if err := rows.Scan(&rec.Company, &rawJSON, &roundedJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan attribution record")
		}
		if err := json.Unmarshal([]byte(rawJSON), &rec.RawPercent); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal raw percent")
		}
		if err := json.Unmarshal([]byte(roundedJSON), &rec.RoundedPercent); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal rounded percent")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate attribution records")
}

// parseTier maps a stored tier string back onto the enum; anything
// unrecognized degrades to none rather than failing the read.
func parseTier(s string) model.QualityTier {
	for _, t := range []model.QualityTier{
		model.TierExact,
		model.TierContainsCandidate,
		model.TierContainedInCandidate,
		model.TierMultiWordOverlap,
		model.TierSingleWordOverlap,
	} {
		if t.String() == s {
			return t
		}
	}
	return model.TierNone
}
