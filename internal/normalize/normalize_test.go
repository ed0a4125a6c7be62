package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases", "Acme", "acme"},
		{"hyphens become spaces", "acme-bitsafe", "acme bitsafe"},
		{"underscores become spaces", "acme_corp_sales", "acme corp sales"},
		{"strips known suffix", "acme-ext", "acme"},
		{"strips stacked suffixes", "acme-team-ext", "acme"},
		{"keeps suffix-only name", "ext", "ext"},
		{"collapses whitespace", "  Acme   Corp ", "acme corp"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalize_CustomSuffixes(t *testing.T) {
	n := New("chat")
	assert.Equal(t, "acme", n.Normalize("acme-chat"))
	// Default suffixes are replaced, not extended.
	assert.Equal(t, "acme ext", n.Normalize("acme-ext"))
}

func TestWords(t *testing.T) {
	n := New()

	assert.Equal(t, []string{"acme", "bitsafe"}, n.Words("Acme-Bitsafe"))
	assert.Equal(t, []string{"acme"}, n.Words("The Acme Inc"), "stop-words dropped")
	assert.Empty(t, n.Words("a b c"), "single-char tokens dropped")
}

func TestVariants(t *testing.T) {
	n := New()

	got := n.Variants("Acme Bitsafe")
	assert.ElementsMatch(t, []string{"acme bitsafe", "acme", "bitsafe", "acmebitsafe"}, got)

	assert.Nil(t, n.Variants("   "))
}

func TestVariants_Deterministic(t *testing.T) {
	n := New()
	first := n.Variants("Globex_Energy-Holdings")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, n.Variants("Globex_Energy-Holdings"))
	}
}

func TestDisplay(t *testing.T) {
	n := New()
	assert.Equal(t, "Acme Bitsafe", n.Display("acme-bitsafe"))
}
