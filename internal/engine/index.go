package engine

import (
	"strings"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

// Index owns the authoritative card set for one snapshot. It is built once
// per refresh and never mutated afterwards, so concurrent readers need no
// locking. Iteration order is insertion order from load, giving deterministic
// ranking sweeps within a process lifetime.
type Index struct {
	cards  []models.Card
	bySlug map[string]int
	byName map[string]int
}

// NormalizeName lowercases and collapses interior whitespace so lookups
// tolerate casing and spacing differences.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NewIndex builds an index over the given cards, preserving their order.
// Later duplicates of a slug or normalized name are ignored.
func NewIndex(cards []models.Card) *Index {
	ix := &Index{
		cards:  cards,
		bySlug: make(map[string]int, len(cards)),
		byName: make(map[string]int, len(cards)),
	}
	for i := range cards {
		slug := cards[i].Slug
		if slug == "" {
			slug = models.Slugify(cards[i].Name)
		}
		if _, ok := ix.bySlug[slug]; !ok {
			ix.bySlug[slug] = i
		}
		norm := NormalizeName(cards[i].Name)
		if _, ok := ix.byName[norm]; !ok {
			ix.byName[norm] = i
		}
	}
	return ix
}

// ResolveExact returns the card whose display name matches after
// normalization, or nil. An unpopulated index simply resolves nothing;
// callers treat that as a degraded state, not an error.
func (ix *Index) ResolveExact(name string) *models.Card {
	if ix == nil {
		return nil
	}
	if i, ok := ix.byName[NormalizeName(name)]; ok {
		return &ix.cards[i]
	}
	return nil
}

// BySlug returns the card with the given stable identity, or nil.
func (ix *Index) BySlug(slug string) *models.Card {
	if ix == nil {
		return nil
	}
	if i, ok := ix.bySlug[slug]; ok {
		return &ix.cards[i]
	}
	return nil
}

// Cards returns the full candidate universe in stable load order. Callers
// must not mutate the returned slice.
func (ix *Index) Cards() []models.Card {
	if ix == nil {
		return nil
	}
	return ix.cards
}

// Len returns the number of indexed cards.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.cards)
}
