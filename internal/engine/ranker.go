package engine

import (
	"math"
	"sort"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

// ScoreMode identifies which weight set produced a blended score.
type ScoreMode string

const (
	ModeEmbedding ScoreMode = "embedding"
	ModeFallback  ScoreMode = "fallback"
)

// RankedCard is one replacement candidate with its blended similarity, the
// mode that scored it, and the sub-score that contributed most (for
// explaining the recommendation to the user).
type RankedCard struct {
	Card      *models.Card       `json:"card"`
	Score     float64            `json:"score"`
	Mode      ScoreMode          `json:"mode"`
	TopFactor string             `json:"top_factor"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// Ranker orders the candidate universe by blended similarity to a target
// card. The scoring mode is chosen once per call, so a single response is
// internally consistent; individual candidates without a vector are demoted
// to fallback scoring rather than dropped.
type Ranker struct {
	index  *Index
	store  *EmbeddingStore
	scorer *AttributeScorer
	cfg    Config
}

func NewRanker(index *Index, store *EmbeddingStore, cfg Config) *Ranker {
	return &Ranker{
		index:  index,
		store:  store,
		scorer: NewAttributeScorer(cfg),
		cfg:    cfg,
	}
}

// Rank returns the topK candidates most similar to target, best first,
// excluding the target itself. topK <= 0 selects the configured default. An
// empty candidate universe yields an empty list, not an error.
func (r *Ranker) Rank(target *models.Card, topK int) []RankedCard {
	if target == nil || r.index.Len() == 0 {
		return []RankedCard{}
	}
	if topK <= 0 {
		topK = r.cfg.DefaultTopK
	}

	targetVec, targetHasVec := r.store.VectorFor(target.Name)
	embeddingMode := r.store.HasEmbeddings() && targetHasVec

	cards := r.index.Cards()
	ranked := make([]RankedCard, 0, len(cards))
	for i := range cards {
		candidate := &cards[i]
		if candidate.Slug == target.Slug {
			continue
		}

		var rc RankedCard
		if embeddingMode {
			if vec, ok := r.store.VectorFor(candidate.Name); ok {
				rc = r.scoreEmbedding(target, candidate, targetVec, vec)
			} else {
				// Demote just this candidate: partial embedding data must
				// degrade gracefully, not drop results.
				rc = r.scoreFallback(target, candidate)
			}
		} else {
			rc = r.scoreFallback(target, candidate)
		}
		ranked = append(ranked, rc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		// Deterministic tie-break: cheaper card first, then name order.
		ci, cj := costForSort(ranked[i].Card), costForSort(ranked[j].Card)
		if ci != cj {
			return ci < cj
		}
		return NormalizeName(ranked[i].Card.Name) < NormalizeName(ranked[j].Card.Name)
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// The blended score is summed in a fixed term order. Float addition is not
// associative, so summing the breakdown map would make equal inputs produce
// slightly different scores from call to call.
func (r *Ranker) scoreEmbedding(target, candidate *models.Card, targetVec, candidateVec []float64) RankedCard {
	w := r.cfg.Embedding
	vector := w.Vector * CosineSimilarity(targetVec, candidateVec)
	elements := w.Elements * r.scorer.ElementOverlap(target, candidate)
	cost := w.Cost * r.scorer.CostCloseness(target, candidate)

	breakdown := map[string]float64{
		"vector":   vector,
		"elements": elements,
		"cost":     cost,
	}
	return RankedCard{
		Card:      candidate,
		Score:     vector + elements + cost,
		Mode:      ModeEmbedding,
		TopFactor: topFactor(breakdown),
		Breakdown: breakdown,
	}
}

func (r *Ranker) scoreFallback(target, candidate *models.Card) RankedCard {
	w := r.cfg.Fallback
	keywords := w.Keywords * r.scorer.KeywordOverlap(target, candidate)
	elements := w.Elements * r.scorer.ElementOverlap(target, candidate)
	cost := w.Cost * r.scorer.CostCloseness(target, candidate)
	typeMatch := w.Type * r.scorer.TypeMatch(target, candidate)

	breakdown := map[string]float64{
		"keywords": keywords,
		"elements": elements,
		"cost":     cost,
		"type":     typeMatch,
	}
	return RankedCard{
		Card:      candidate,
		Score:     keywords + elements + cost + typeMatch,
		Mode:      ModeFallback,
		TopFactor: topFactor(breakdown),
		Breakdown: breakdown,
	}
}

// topFactor names the largest weighted contribution; ties resolve to the
// lexicographically first label so output is reproducible.
func topFactor(breakdown map[string]float64) string {
	best := ""
	bestVal := math.Inf(-1)
	for label, v := range breakdown {
		if v > bestVal || (v == bestVal && label < best) {
			best = label
			bestVal = v
		}
	}
	return best
}

func costForSort(c *models.Card) int {
	if c.Cost == nil {
		return math.MaxInt
	}
	return *c.Cost
}
