// Package normalize turns raw external identifiers (channel slugs, group
// titles, calendar domains, CRM deal names) into canonical comparable forms.
package normalize

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultSuffixes are trailing tokens stripped before comparison. These are
// platform conventions, not part of the company name.
var defaultSuffixes = []string{"ext", "external", "int", "internal", "hq", "team"}

// stopWords are tokens too generic to carry matching signal on their own.
var stopWords = map[string]bool{
	"the": true, "and": true, "of": true, "for": true,
	"inc": true, "llc": true, "ltd": true, "corp": true, "co": true,
	"gmbh": true, "group": true,
}

var titleCaser = cases.Title(language.English)

// Normalizer produces canonical forms and variants of raw identifiers.
// Pure and deterministic: the same input always yields the same output.
type Normalizer struct {
	suffixes map[string]bool
}

// New creates a Normalizer. With no arguments the default suffix set is
// used; passing suffixes replaces it entirely.
func New(suffixes ...string) *Normalizer {
	if len(suffixes) == 0 {
		suffixes = defaultSuffixes
	}
	set := make(map[string]bool, len(suffixes))
	for _, s := range suffixes {
		set[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return &Normalizer{suffixes: set}
}

// Normalize lower-cases raw, replaces underscores and hyphens with spaces,
// strips known trailing suffix tokens, and collapses whitespace. All
// matching operates on this form.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)

	tokens := strings.Fields(s)
	for len(tokens) > 1 && n.suffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Words returns the normalized tokens of raw, excluding stop-words and
// tokens shorter than 2 characters.
func (n *Normalizer) Words(raw string) []string {
	var words []string
	for _, tok := range strings.Fields(n.Normalize(raw)) {
		if len(tok) < 2 || stopWords[tok] {
			continue
		}
		words = append(words, tok)
	}
	return words
}

// WordSet returns Words as a set.
func (n *Normalizer) WordSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range n.Words(raw) {
		set[w] = true
	}
	return set
}

// Variants returns the comparable forms of raw, sorted: the normalized full
// string, each qualifying word, and the concatenation with internal
// whitespace removed (handles concatenated-vs-spaced naming).
func (n *Normalizer) Variants(raw string) []string {
	norm := n.Normalize(raw)
	if norm == "" {
		return nil
	}

	set := map[string]bool{norm: true}
	for _, w := range n.Words(raw) {
		set[w] = true
	}
	if joined := strings.ReplaceAll(norm, " ", ""); joined != "" {
		set[joined] = true
	}

	variants := make([]string, 0, len(set))
	for v := range set {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	return variants
}

// Display returns a title-cased presentation form. Never used for matching.
func (n *Normalizer) Display(raw string) string {
	return titleCaser.String(n.Normalize(raw))
}
