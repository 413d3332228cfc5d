package engine

import "github.com/pnakotic/sorcery-bot/internal/models"

// MatchKind tags the outcome of a name resolution. One arm per outcome so
// callers switch on the kind instead of sniffing result shapes.
type MatchKind int

const (
	// MatchNotFound means nothing resolved above the fuzzy threshold.
	MatchNotFound MatchKind = iota
	// MatchExact is a single unambiguous resolution (exact name, or a
	// partial match with exactly one candidate).
	MatchExact
	// MatchPartial carries 2..PartialMaxCandidates substring candidates,
	// most specific (shortest name) first.
	MatchPartial
	// MatchFuzzy is a typo-tolerant best match with its confidence.
	MatchFuzzy
	// MatchAmbiguous means too many partial matches; only the count is
	// carried to keep responses terse.
	MatchAmbiguous
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	case MatchFuzzy:
		return "fuzzy"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// MatchResult is the tagged result of one resolver lookup. Only the fields
// for the active Kind are populated. Constructed per call, consumed
// immediately by the caller.
type MatchResult struct {
	Kind       MatchKind
	Card       *models.Card   // Exact, Fuzzy
	Candidates []*models.Card // Partial
	Confidence float64        // Fuzzy
	Count      int            // Ambiguous
}
