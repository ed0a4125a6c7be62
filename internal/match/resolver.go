package match

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/commission-cli/internal/model"
)

// Resolver selects the best candidate per company and source kind.
type Resolver struct {
	scorer *Scorer
}

// NewResolver creates a Resolver.
func NewResolver(scorer *Scorer) *Resolver {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &Resolver{scorer: scorer}
}

// Resolve scores every candidate against every company and retains the
// single best result per (company, source kind). Candidates are evaluated
// in lexicographic order so equal-tier ties always break the same way; a
// broken tie is surfaced via Ambiguous and TiedWith rather than hidden.
//
// One result is emitted per company for each source kind present in the
// candidate list, including TierNone results when nothing matched. A
// candidate may appear as several companies' best match; callers needing
// at-most-one company per candidate apply ReduceBestPerCandidate.
func (r *Resolver) Resolve(companies []model.Company, candidates []model.MatchCandidate) []model.MatchResult {
	bySource := make(map[model.SourceKind][]string)
	for _, c := range candidates {
		bySource[c.Source] = append(bySource[c.Source], c.Raw)
	}
	for _, raws := range bySource {
		sort.Strings(raws)
	}

	var results []model.MatchResult
	for _, company := range companies {
		for _, kind := range model.SourceKinds {
			raws, ok := bySource[kind]
			if !ok {
				continue
			}
			results = append(results, r.best(company.CanonicalName, kind, raws))
		}
	}
	return results
}

// best returns the highest-tier result for one company against one source's
// candidates.
func (r *Resolver) best(company string, kind model.SourceKind, raws []string) model.MatchResult {
	result := model.MatchResult{Company: company, Source: kind, Tier: model.TierNone}

	for _, raw := range raws {
		tier := r.scorer.Score(company, model.MatchCandidate{Raw: raw, Source: kind})
		if tier == model.TierNone {
			continue
		}
		switch {
		case tier.Better(result.Tier):
			result.Candidate = raw
			result.Tier = tier
			result.Ambiguous = false
			result.TiedWith = nil
		case tier == result.Tier && raw != result.Candidate:
			result.Ambiguous = true
			result.TiedWith = append(result.TiedWith, raw)
		}
	}

	if result.Matched() {
		zap.L().Debug("resolve: matched candidate",
			zap.String("company", company),
			zap.String("source", string(kind)),
			zap.String("candidate", result.Candidate),
			zap.String("tier", result.Tier.String()),
			zap.Bool("ambiguous", result.Ambiguous),
		)
	}
	return result
}

// ReduceBestPerCandidate enforces at-most-one company per candidate: when
// several companies claim the same candidate, the highest tier wins, ties
// broken by shortest canonical name first, then lexicographically. TierNone
// results pass through untouched.
func ReduceBestPerCandidate(results []model.MatchResult) []model.MatchResult {
	type key struct {
		source    model.SourceKind
		candidate string
	}

	best := make(map[key]model.MatchResult)
	var reduced []model.MatchResult
	for _, res := range results {
		if !res.Matched() {
			reduced = append(reduced, res)
			continue
		}
		k := key{res.Source, res.Candidate}
		cur, ok := best[k]
		if !ok || betterClaim(res, cur) {
			best[k] = res
		}
	}

	keys := make([]key, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].source != keys[j].source {
			return keys[i].source < keys[j].source
		}
		return keys[i].candidate < keys[j].candidate
	})
	for _, k := range keys {
		reduced = append(reduced, best[k])
	}
	return reduced
}

// betterClaim reports whether a should displace b as a candidate's owner.
func betterClaim(a, b model.MatchResult) bool {
	if a.Tier != b.Tier {
		return a.Tier.Better(b.Tier)
	}
	if len(a.Company) != len(b.Company) {
		return len(a.Company) < len(b.Company)
	}
	return a.Company < b.Company
}

// Apply writes matched identifiers onto each company's SourceIdentifiers
// map. Companies are mutated in place; identifiers per source stay sorted.
func Apply(companies []model.Company, results []model.MatchResult) {
	byCompany := make(map[string]*model.Company, len(companies))
	for i := range companies {
		byCompany[companies[i].CanonicalName] = &companies[i]
	}

	for _, res := range results {
		if !res.Matched() {
			continue
		}
		c, ok := byCompany[res.Company]
		if !ok {
			continue
		}
		if c.SourceIdentifiers == nil {
			c.SourceIdentifiers = make(map[model.SourceKind][]string)
		}
		c.SourceIdentifiers[res.Source] = append(c.SourceIdentifiers[res.Source], res.Candidate)
	}

	for _, c := range byCompany {
		for kind := range c.SourceIdentifiers {
			sort.Strings(c.SourceIdentifiers[kind])
		}
	}
}

// Unresolved returns the candidates no company claimed, deduplicated and
// sorted. The raw source data rides along untouched.
func Unresolved(candidates []model.MatchCandidate, results []model.MatchResult) []model.UnresolvedCandidate {
	matched := make(map[model.MatchCandidate]bool)
	for _, res := range results {
		if res.Matched() {
			matched[model.MatchCandidate{Raw: res.Candidate, Source: res.Source}] = true
		}
	}

	seen := make(map[model.MatchCandidate]bool)
	var unresolved []model.UnresolvedCandidate
	for _, c := range candidates {
		if matched[c] || seen[c] {
			continue
		}
		seen[c] = true
		unresolved = append(unresolved, model.UnresolvedCandidate{Candidate: c})
	}
	sort.Slice(unresolved, func(i, j int) bool {
		a, b := unresolved[i].Candidate, unresolved[j].Candidate
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Raw < b.Raw
	})
	return unresolved
}
