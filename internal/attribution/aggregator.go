package attribution

import (
	"sort"

	"github.com/sells-group/commission-cli/internal/model"
	"github.com/sells-group/commission-cli/internal/stage"
)

// Aggregate folds a company's detections into each participant's share of
// credit. Per stage, each participant's detection count is scaled by their
// roster multiplier; the stage's configured weight is then split in
// proportion to the scaled counts and accumulated across stages.
//
// The fold is order-invariant (only counts matter) and idempotent.
// Accumulated totals are reported raw: if the configured stage weights do
// not sum to 100, neither will the output. Renormalizing here would hide a
// configuration bug.
//
// A stage whose detections all carry zero scaled weight, or that has no
// detections at all, contributes nothing; its weight is dropped, not
// redistributed.
func Aggregate(detections []model.StageDetection, pipe *stage.Pipeline, roster *Roster) map[string]float64 {
	raw := make(map[string]float64)
	if pipe == nil || len(detections) == 0 {
		return raw
	}

	// count[stage][author] = number of detections.
	count := make(map[string]map[string]int)
	for _, d := range detections {
		if count[d.Stage] == nil {
			count[d.Stage] = make(map[string]int)
		}
		count[d.Stage][d.AuthorID]++
	}

	// Stages are walked in pipeline order so float accumulation is
	// deterministic. Detections for stages missing from the pipeline are
	// zero-weight and skipped by the same rule as configured zero weights.
	for _, s := range pipe.Stages {
		authors := count[s.Name]
		if len(authors) == 0 || s.WeightPercent == 0 {
			continue
		}

		ids := make([]string, 0, len(authors))
		for id := range authors {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		var total float64
		scaled := make(map[string]float64, len(ids))
		for _, id := range ids {
			w := float64(authors[id]) * roster.Lookup(id).WeightMultiplier
			scaled[id] = w
			total += w
		}
		if total <= 0 {
			continue
		}

		for _, id := range ids {
			raw[id] += scaled[id] / total * s.WeightPercent
		}
	}
	return raw
}

// BuildRecord assembles the final attribution record for a company,
// attaching the bucket-rounded projection of each raw percentage.
func BuildRecord(company string, raw map[string]float64) model.AttributionRecord {
	rounded := make(map[string]float64, len(raw))
	for id, pct := range raw {
		rounded[id] = RoundToBucket(pct)
	}
	return model.AttributionRecord{
		Company:        company,
		RawPercent:     raw,
		RoundedPercent: rounded,
	}
}
