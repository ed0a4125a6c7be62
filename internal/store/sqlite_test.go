package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/commission-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_MatchResultsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results := []model.MatchResult{
		{
			Company:   "Acme",
			Candidate: "acme-bitsafe",
			Source:    model.SourceMessagingChannel,
			Tier:      model.TierContainsCandidate,
			Ambiguous: true,
			TiedWith:  []string{"acme-other"},
		},
		{Company: "Globex", Source: model.SourceCRMDeal, Tier: model.TierNone},
	}
	require.NoError(t, s.SaveMatchResults(ctx, results))

	got, err := s.ListMatchResults(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "acme-bitsafe", got[0].Candidate)
	assert.Equal(t, model.TierContainsCandidate, got[0].Tier)
	assert.True(t, got[0].Ambiguous)
	assert.Equal(t, []string{"acme-other"}, got[0].TiedWith)
	assert.Equal(t, model.TierNone, got[1].Tier)
}

func TestSQLite_SaveMatchResultsReplacesSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []model.MatchResult{{Company: "Acme", Source: model.SourceCRMDeal, Tier: model.TierExact, Candidate: "acme"}}
	require.NoError(t, s.SaveMatchResults(ctx, first))
	require.NoError(t, s.SaveMatchResults(ctx, nil))

	got, err := s.ListMatchResults(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_MessagesOrderedByTimestampThenInsertion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []model.Message{
		{Company: "Acme", AuthorID: "late", Timestamp: ts.Add(time.Hour), Text: "second"},
		{Company: "Acme", AuthorID: "a", Timestamp: ts, Text: "tie one"},
		{Company: "Acme", AuthorID: "b", Timestamp: ts, Text: "tie two"},
	}
	require.NoError(t, s.InsertMessages(ctx, messages))

	got, err := s.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].AuthorID, "ties keep insertion order")
	assert.Equal(t, "b", got[1].AuthorID)
	assert.Equal(t, "late", got[2].AuthorID)
}

func TestSQLite_RunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	records := []model.AttributionRecord{
		{
			Company:        "Acme",
			RawPercent:     map[string]float64{"alice": 13.33, "bob": 6.67},
			RoundedPercent: map[string]float64{"alice": 25, "bob": 0},
		},
	}
	require.NoError(t, s.SaveAttributionRecords(ctx, run.ID, records))
	require.NoError(t, s.CompleteRun(ctx, run.ID, model.RunStatusComplete, 1))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, model.RunStatusComplete, latest.Status)
	assert.Equal(t, 1, latest.Companies)

	got, err := s.ListAttributionRecords(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Company)
	assert.InDelta(t, 13.33, got[0].RawPercent["alice"], 1e-9)
	assert.Equal(t, 25.0, got[0].RoundedPercent["alice"])
}

func TestSQLite_CompleteRunNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteRun(context.Background(), "missing", model.RunStatusComplete, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_LatestRunEmpty(t *testing.T) {
	s := newTestStore(t)
	run, err := s.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestParseTier(t *testing.T) {
	for _, tier := range []model.QualityTier{
		model.TierNone,
		model.TierSingleWordOverlap,
		model.TierMultiWordOverlap,
		model.TierContainedInCandidate,
		model.TierContainsCandidate,
		model.TierExact,
	} {
		assert.Equal(t, tier, parseTier(tier.String()))
	}
	assert.Equal(t, model.TierNone, parseTier("garbage"))
}
