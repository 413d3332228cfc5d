package engine

import (
	"sort"
	"strings"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

// Resolver turns free-text user input into a MatchResult, tolerating typos
// and partial names. It operates purely over the in-memory index; no network
// or disk access.
type Resolver struct {
	index *Index
	cfg   Config
}

func NewResolver(index *Index, cfg Config) *Resolver {
	return &Resolver{index: index, cfg: cfg}
}

// Resolve applies the match strategies in strict precedence order, first
// success wins: exact name, substring containment, edit-distance fuzzy.
func (r *Resolver) Resolve(input string) MatchResult {
	query := NormalizeName(input)
	if query == "" || r.index.Len() == 0 {
		return MatchResult{Kind: MatchNotFound}
	}

	// 1. Exact match
	if card := r.index.ResolveExact(query); card != nil {
		return MatchResult{Kind: MatchExact, Card: card}
	}

	// 2. Partial match: query contained in a card name, or for single-word
	// queries a card name contained in the query.
	singleWord := !strings.Contains(query, " ")
	cards := r.index.Cards()
	var partial []*models.Card
	for i := range cards {
		name := NormalizeName(cards[i].Name)
		if strings.Contains(name, query) || (singleWord && strings.Contains(query, name)) {
			partial = append(partial, &cards[i])
		}
	}
	switch {
	case len(partial) == 1:
		return MatchResult{Kind: MatchExact, Card: partial[0]}
	case len(partial) > r.cfg.PartialMaxCandidates:
		return MatchResult{Kind: MatchAmbiguous, Count: len(partial)}
	case len(partial) > 1:
		// Shortest name first: the most specific match for the query.
		sort.SliceStable(partial, func(i, j int) bool {
			ni, nj := NormalizeName(partial[i].Name), NormalizeName(partial[j].Name)
			if len(ni) != len(nj) {
				return len(ni) < len(nj)
			}
			return ni < nj
		})
		return MatchResult{Kind: MatchPartial, Candidates: partial}
	}

	// 3. Fuzzy match over every card name. Ties at the same similarity go to
	// the lexicographically first normalized name, so results are
	// reproducible.
	var best *models.Card
	bestScore := -1.0
	bestName := ""
	for i := range cards {
		name := NormalizeName(cards[i].Name)
		score := similarityRatio(query, name)
		if score > bestScore || (score == bestScore && name < bestName) {
			best = &cards[i]
			bestScore = score
			bestName = name
		}
	}
	if best != nil && bestScore >= r.cfg.FuzzyThreshold {
		return MatchResult{Kind: MatchFuzzy, Card: best, Confidence: bestScore}
	}

	return MatchResult{Kind: MatchNotFound}
}
