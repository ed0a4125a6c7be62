// Package store persists match results, the ingested message stream, and
// attribution runs. Two backends: SQLite for local single-user runs,
// Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/commission-cli/internal/model"
)

// Store is the persistence interface for the attribution pipeline.
type Store interface {
	// Match results: one resolution snapshot at a time.
	SaveMatchResults(ctx context.Context, results []model.MatchResult) error
	ListMatchResults(ctx context.Context) ([]model.MatchResult, error)

	// Message stream. ListMessages returns timestamp order with insertion
	// order breaking ties.
	InsertMessages(ctx context.Context, messages []model.Message) error
	ListMessages(ctx context.Context) ([]model.Message, error)

	// Attribution runs and their records.
	CreateRun(ctx context.Context) (*model.AttributionRun, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, companies int) error
	LatestRun(ctx context.Context) (*model.AttributionRun, error)
	SaveAttributionRecords(ctx context.Context, runID string, records []model.AttributionRecord) error
	ListAttributionRecords(ctx context.Context, runID string) ([]model.AttributionRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(databaseURL)
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
