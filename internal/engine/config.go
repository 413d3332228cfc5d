package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights indicates a scoring weight set that does not sum to 1.0.
// This is a startup-time misconfiguration: main checks Config.Validate once
// and halts on failure rather than producing silently skewed scores.
var ErrInvalidWeights = errors.New("scoring weights must sum to 1.0")

// EmbeddingWeights blends the sub-scores used when semantic vectors are
// available for the target card.
type EmbeddingWeights struct {
	Vector   float64 // cosine similarity of ability embeddings
	Elements float64 // element identity overlap
	Cost     float64 // mana cost closeness
}

// FallbackWeights blends the purely structural sub-scores used when the
// embedding store is unavailable or the target card has no vector.
type FallbackWeights struct {
	Keywords float64 // keyword/ability tag overlap
	Elements float64 // element identity overlap
	Cost     float64 // mana cost closeness
	Type     float64 // exact card type match bonus
}

const weightSumTolerance = 1e-9

func (w EmbeddingWeights) Validate() error {
	sum := w.Vector + w.Elements + w.Cost
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: embedding mode sums to %v", ErrInvalidWeights, sum)
	}
	return nil
}

func (w FallbackWeights) Validate() error {
	sum := w.Keywords + w.Elements + w.Cost + w.Type
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: fallback mode sums to %v", ErrInvalidWeights, sum)
	}
	return nil
}

// Config carries the engine's tuned parameters. The thresholds and cutoffs
// are product decisions, not correctness ones, so they are injected rather
// than hard-coded; DefaultConfig gives the values the bot ships with.
type Config struct {
	// FuzzyThreshold is the minimum normalized edit-distance similarity
	// (0-1) for a fuzzy match to be accepted.
	FuzzyThreshold float64

	// PartialMaxCandidates is the most partial matches reported back as a
	// list; anything beyond this collapses to an ambiguous result carrying
	// only the count.
	PartialMaxCandidates int

	// CostNormalization scales mana-cost distance: a difference of this many
	// mana scores zero closeness.
	CostNormalization float64

	// DefaultTopK is the ranked-list length used when the caller does not
	// specify one.
	DefaultTopK int

	Embedding EmbeddingWeights
	Fallback  FallbackWeights
}

func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:       0.75,
		PartialMaxCandidates: 5,
		CostNormalization:    5,
		DefaultTopK:          5,
		Embedding: EmbeddingWeights{
			Vector:   0.70,
			Elements: 0.20,
			Cost:     0.10,
		},
		Fallback: FallbackWeights{
			Keywords: 0.50,
			Elements: 0.25,
			Cost:     0.15,
			Type:     0.10,
		},
	}
}

// Validate checks the startup invariants: both weight sets must sum to 1.0
// and the structural parameters must be sane.
func (c Config) Validate() error {
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	if err := c.Fallback.Validate(); err != nil {
		return err
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold %v outside (0, 1]", c.FuzzyThreshold)
	}
	if c.PartialMaxCandidates < 1 {
		return fmt.Errorf("partial match cutoff %d must be at least 1", c.PartialMaxCandidates)
	}
	if c.CostNormalization <= 0 {
		return fmt.Errorf("cost normalization %v must be positive", c.CostNormalization)
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default top-k %d must be at least 1", c.DefaultTopK)
	}
	return nil
}
