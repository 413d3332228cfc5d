// Package engine implements the card matching and recommendation core:
// typo-tolerant name resolution over an immutable card index, and replacement
// ranking that blends ability embeddings with structured attribute
// comparison, falling back to attributes alone when vectors are unavailable.
//
// The engine does no I/O of its own after construction and all shared state
// is read-only, so one Engine is safe for unsynchronized concurrent use.
package engine

import "github.com/pnakotic/sorcery-bot/internal/models"

// Engine bundles the resolver and ranker over one card snapshot. Build a new
// Engine whenever the card store refreshes; the old one stays valid for
// in-flight requests.
type Engine struct {
	index    *Index
	store    *EmbeddingStore
	resolver *Resolver
	ranker   *Ranker
	cfg      Config
}

// New builds an engine over the given cards. Cards missing extracted keyword
// tags get them derived from rules text here, so callers can hand over raw
// API snapshots.
func New(cards []models.Card, store *EmbeddingStore, cfg Config) *Engine {
	for i := range cards {
		if cards[i].Slug == "" {
			cards[i].Slug = models.Slugify(cards[i].Name)
		}
		if cards[i].Keywords == nil {
			cards[i].Keywords = ExtractKeywords(cards[i].RulesText)
		}
	}
	if store == nil {
		store = EmptyEmbeddingStore()
	}
	index := NewIndex(cards)
	return &Engine{
		index:    index,
		store:    store,
		resolver: NewResolver(index, cfg),
		ranker:   NewRanker(index, store, cfg),
		cfg:      cfg,
	}
}

// Resolve maps input text to a tagged match result.
func (e *Engine) Resolve(input string) MatchResult {
	return e.resolver.Resolve(input)
}

// Rank returns up to topK replacement candidates for target, best first.
func (e *Engine) Rank(target *models.Card, topK int) []RankedCard {
	return e.ranker.Rank(target, topK)
}

// CardIndex exposes the underlying index for exact/slug lookups.
func (e *Engine) CardIndex() *Index {
	return e.index
}

// Embeddings exposes the store, mainly for reporting availability.
func (e *Engine) Embeddings() *EmbeddingStore {
	return e.store
}
