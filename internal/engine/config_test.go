package engine

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestWeightSumInvariant(t *testing.T) {
	cfg := DefaultConfig()

	embSum := cfg.Embedding.Vector + cfg.Embedding.Elements + cfg.Embedding.Cost
	if embSum != 1.0 {
		t.Errorf("embedding mode weights sum to %v, want 1.0", embSum)
	}

	fbSum := cfg.Fallback.Keywords + cfg.Fallback.Elements + cfg.Fallback.Cost + cfg.Fallback.Type
	if fbSum != 1.0 {
		t.Errorf("fallback mode weights sum to %v, want 1.0", fbSum)
	}
}

func TestConfigValidateRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "embedding weights over budget",
			mutate: func(c *Config) {
				c.Embedding.Vector = 0.9
			},
		},
		{
			name: "fallback weights under budget",
			mutate: func(c *Config) {
				c.Fallback.Keywords = 0.1
			},
		},
		{
			name: "zero weights",
			mutate: func(c *Config) {
				c.Embedding = EmbeddingWeights{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("Validate() = %v, want ErrInvalidWeights", err)
			}
		})
	}
}

func TestConfigValidateRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fuzzy threshold", func(c *Config) { c.FuzzyThreshold = 0 }},
		{"fuzzy threshold above one", func(c *Config) { c.FuzzyThreshold = 1.5 }},
		{"zero partial cutoff", func(c *Config) { c.PartialMaxCandidates = 0 }},
		{"negative cost normalization", func(c *Config) { c.CostNormalization = -1 }},
		{"zero top-k", func(c *Config) { c.DefaultTopK = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
