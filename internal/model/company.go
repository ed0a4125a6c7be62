package model

// SourceKind identifies which external export a raw identifier came from.
type SourceKind string

const (
	SourceMessagingChannel SourceKind = "messaging_channel"
	SourceGroupChat        SourceKind = "group_chat"
	SourceCalendarDomain   SourceKind = "calendar_domain"
	SourceCRMDeal          SourceKind = "crm_deal"
)

// SourceKinds lists all known source kinds in a fixed order.
var SourceKinds = []SourceKind{
	SourceMessagingChannel,
	SourceGroupChat,
	SourceCalendarDomain,
	SourceCRMDeal,
}

// RequiresGroupContext reports whether identifiers from this source can be
// either group conversations or direct messages. For such sources a
// DM-shaped identifier must never match a company, regardless of lexical
// overlap.
func (k SourceKind) RequiresGroupContext() bool {
	return k == SourceGroupChat
}

// Company is a canonical entity from the company catalog.
// SourceIdentifiers is populated only by the resolver during a run.
type Company struct {
	CanonicalName     string                  `json:"canonical_name"`
	SourceIdentifiers map[SourceKind][]string `json:"source_identifiers,omitempty"`
}

// MatchCandidate is a raw identifier from one external source, tested once
// against the catalog and then discarded.
type MatchCandidate struct {
	Raw    string     `json:"raw"`
	Source SourceKind `json:"source"`
}

// QualityTier is the ordered match-quality category. Higher is better.
type QualityTier int

const (
	TierNone QualityTier = iota
	TierSingleWordOverlap
	TierMultiWordOverlap
	TierContainedInCandidate // normalized candidate appears inside the company name
	TierContainsCandidate    // normalized company name appears inside the candidate
	TierExact
)

var tierNames = map[QualityTier]string{
	TierNone:                 "none",
	TierSingleWordOverlap:    "single_word_overlap",
	TierMultiWordOverlap:     "multi_word_overlap",
	TierContainedInCandidate: "contained_in_candidate",
	TierContainsCandidate:    "contains_candidate",
	TierExact:                "exact",
}

func (t QualityTier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "none"
}

// Better reports whether t outranks other.
func (t QualityTier) Better(other QualityTier) bool {
	return t > other
}

// MatchResult links a company to the best candidate found in one source.
// A TierNone result is the expected outcome when nothing matched; it is a
// value, never an error. Ambiguous is set when another candidate scored the
// same tier and the tie was broken deterministically; TiedWith lists the
// losing candidates for manual review.
type MatchResult struct {
	Company   string      `json:"company"`
	Candidate string      `json:"candidate,omitempty"`
	Source    SourceKind  `json:"source"`
	Tier      QualityTier `json:"tier"`
	Ambiguous bool        `json:"ambiguous,omitempty"`
	TiedWith  []string    `json:"tied_with,omitempty"`
}

// Matched reports whether the result carries a real match.
func (r MatchResult) Matched() bool {
	return r.Tier != TierNone
}

// UnresolvedCandidate is a candidate no company claimed. It carries the raw
// source data so unresolved identifiers stay traceable and stable across
// runs instead of being renamed by a derived fallback.
type UnresolvedCandidate struct {
	Candidate MatchCandidate `json:"candidate"`
}
