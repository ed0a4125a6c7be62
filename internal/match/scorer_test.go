package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/commission-cli/internal/model"
	"github.com/sells-group/commission-cli/internal/normalize"
)

func TestScoreNames_TierCascade(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		name      string
		company   string
		candidate string
		want      model.QualityTier
	}{
		{"exact", "Acme", "acme", model.TierExact},
		{"exact after separator normalization", "Acme Corp", "acme_corp", model.TierExact},
		{"company inside candidate", "Acme", "acme-bitsafe", model.TierContainsCandidate},
		{"company inside concatenated candidate", "Bit Safe", "bitsafe-deal", model.TierContainsCandidate},
		{"candidate inside company", "Acme Holdings International", "acme holdings", model.TierContainedInCandidate},
		{"short candidate inside company", "Globex Energy", "globex", model.TierContainedInCandidate},
		{"multi word overlap", "Acme Energy Partners", "energy partners meetup", model.TierMultiWordOverlap},
		{"single word overlap", "Acme Energy", "energy roundtable", model.TierSingleWordOverlap},
		{"no overlap", "Acme", "globex", model.TierNone},
		{"stop words carry no signal", "The Acme Inc", "the inc", model.TierNone},
		{"empty candidate", "Acme", "", model.TierNone},
		{"empty company", "", "acme", model.TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ScoreNames(tt.company, tt.candidate))
		})
	}
}

func TestScoreNames_SubstringOutranksOverlap(t *testing.T) {
	s := NewScorer(nil)

	// "acme energy" is a substring of the candidate, so the cascade stops
	// before the word-overlap checks.
	got := s.ScoreNames("Acme Energy", "acme energy quarterly sync")
	assert.Equal(t, model.TierContainsCandidate, got)
}

func TestScoreNames_ExactOnlyWhenNormalizedEqual(t *testing.T) {
	s := NewScorer(nil)
	n := normalize.New()

	pairs := [][2]string{
		{"Acme", "acme"},
		{"Acme", "acme-bitsafe"},
		{"Bit Safe", "bitsafe"},
		{"Globex Energy", "energy globex"},
		{"Acme", "john smith"},
	}
	for _, p := range pairs {
		tier := s.ScoreNames(p[0], p[1])
		if tier == model.TierExact {
			assert.Equal(t, n.Normalize(p[0]), n.Normalize(p[1]),
				"exact requires normalized equality: %q vs %q", p[0], p[1])
		}
	}
}

func TestScore_DMShapedGroupChatRejected(t *testing.T) {
	s := NewScorer(nil)

	// A person's name with no multi-party separator never matches, no
	// matter how similar it is to the company name.
	cand := model.MatchCandidate{Raw: "John Smith", Source: model.SourceGroupChat}
	assert.Equal(t, model.TierNone, s.Score("John Smith", cand))

	cand.Raw = "Acme"
	assert.Equal(t, model.TierNone, s.Score("Acme", cand))
}

func TestScore_GroupChatWithSeparatorScored(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		raw  string
		want model.QualityTier
	}{
		{"Acme <> Vendor", model.TierContainsCandidate},
		{"Acme / Procurement", model.TierContainsCandidate},
		{"Acme - Deal Room", model.TierContainsCandidate},
	}
	for _, tt := range tests {
		cand := model.MatchCandidate{Raw: tt.raw, Source: model.SourceGroupChat}
		assert.Equal(t, tt.want, s.Score("Acme", cand), "raw=%q", tt.raw)
	}
}

func TestScore_ChannelSlugNotTreatedAsDM(t *testing.T) {
	s := NewScorer(nil)

	// Channel slugs have no DM shape to reject; plain hyphens are word
	// separators, not conversation separators.
	cand := model.MatchCandidate{Raw: "acme-bitsafe", Source: model.SourceMessagingChannel}
	assert.Equal(t, model.TierContainsCandidate, s.Score("Acme", cand))
}
