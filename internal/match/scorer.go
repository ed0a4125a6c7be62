// Package match scores raw external identifiers against the company catalog
// and selects the best match per company and source.
package match

import (
	"strings"

	"github.com/sells-group/commission-cli/internal/model"
	"github.com/sells-group/commission-cli/internal/normalize"
)

// groupSeparators mark a multi-party conversation name. An identifier
// without any of them is DM-shaped for sources where that distinction
// exists.
var groupSeparators = []string{"<>", "/", " - "}

// Scorer assigns a discrete quality tier to a (company, candidate) pair.
type Scorer struct {
	norm *normalize.Normalizer
}

// NewScorer creates a Scorer over the given normalizer.
func NewScorer(n *normalize.Normalizer) *Scorer {
	if n == nil {
		n = normalize.New()
	}
	return &Scorer{norm: n}
}

// Score evaluates a candidate for a company. Candidates from sources where
// the group-vs-DM distinction matters are rejected outright when DM-shaped:
// a company match must denote a genuine group context, not an individual.
func (s *Scorer) Score(companyName string, cand model.MatchCandidate) model.QualityTier {
	if cand.Source.RequiresGroupContext() && looksLikeDirectMessage(cand.Raw) {
		return model.TierNone
	}
	return s.ScoreNames(companyName, cand.Raw)
}

// ScoreNames runs the tier cascade on normalized forms, returning the first
// tier that applies. Never returns an error: no match is the common case and
// yields TierNone.
func (s *Scorer) ScoreNames(companyName, candidate string) model.QualityTier {
	name := s.norm.Normalize(companyName)
	cand := s.norm.Normalize(candidate)
	if name == "" || cand == "" {
		return model.TierNone
	}

	// Concatenated forms cover spaced-vs-joined naming ("bit safe" / "bitsafe").
	joinedName := strings.ReplaceAll(name, " ", "")
	joinedCand := strings.ReplaceAll(cand, " ", "")

	switch {
	case name == cand:
		return model.TierExact
	case strings.Contains(cand, name) || strings.Contains(joinedCand, joinedName):
		return model.TierContainsCandidate
	case strings.Contains(name, cand) || strings.Contains(joinedName, joinedCand):
		return model.TierContainedInCandidate
	}

	nameWords := s.norm.WordSet(companyName)
	candWords := s.norm.WordSet(candidate)
	overlap := 0
	for w := range nameWords {
		if candWords[w] {
			overlap++
		}
	}

	switch {
	// Two shared words covering at least half the company name guards
	// against coincidental overlap on common words.
	case overlap >= 2 && float64(overlap) >= 0.5*float64(len(nameWords)):
		return model.TierMultiWordOverlap
	case overlap == 1:
		return model.TierSingleWordOverlap
	}
	return model.TierNone
}

// looksLikeDirectMessage reports whether a raw identifier lacks every
// multi-party separator.
func looksLikeDirectMessage(raw string) bool {
	for _, sep := range groupSeparators {
		if strings.Contains(raw, sep) {
			return false
		}
	}
	return true
}
