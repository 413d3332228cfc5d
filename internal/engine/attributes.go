package engine

import (
	"math"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

// AttributeScorer computes structural similarity sub-scores between two
// cards, independent of embeddings. Every sub-score lies in [0, 1]; the
// ranker blends them under mode-dependent weights.
type AttributeScorer struct {
	cfg Config
}

func NewAttributeScorer(cfg Config) *AttributeScorer {
	return &AttributeScorer{cfg: cfg}
}

// jaccard is intersection-over-union of two string sets. Two empty sets are
// defined as identical (1.0) so cards without elements or keywords match each
// other perfectly rather than not at all.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	union := len(set)
	intersection := 0
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// ElementOverlap is the Jaccard similarity of the two cards' element sets.
func (s *AttributeScorer) ElementOverlap(a, b *models.Card) float64 {
	return jaccard(a.Elements, b.Elements)
}

// KeywordOverlap is the Jaccard similarity of the extracted ability tag sets.
func (s *AttributeScorer) KeywordOverlap(a, b *models.Card) float64 {
	return jaccard(a.Keywords, b.Keywords)
}

// CostCloseness maps mana cost distance into [0, 1]: equal costs score 1, a
// difference of CostNormalization or more scores 0. Cards without a printed
// cost only match other costless cards.
func (s *AttributeScorer) CostCloseness(a, b *models.Card) float64 {
	if a.Cost == nil && b.Cost == nil {
		return 1.0
	}
	if a.Cost == nil || b.Cost == nil {
		return 0.0
	}
	diff := math.Abs(float64(*a.Cost - *b.Cost))
	return 1.0 - math.Min(1.0, diff/s.cfg.CostNormalization)
}

// TypeMatch is 1 for an exact card type match, else 0. Only blended in
// fallback mode, where no semantic signal is available.
func (s *AttributeScorer) TypeMatch(a, b *models.Card) float64 {
	if a.Type != "" && a.Type == b.Type {
		return 1.0
	}
	return 0.0
}
