package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// EmbeddingStore is a read-only mapping from card name to a fixed-dimension
// ability embedding, produced offline and loaded once. Loading is
// all-or-nothing: a partial or corrupt vector file would bias scores between
// cards with and without vectors, so any defect marks the whole store
// unavailable and the ranker falls back to structural scoring.
type EmbeddingStore struct {
	vectors   map[string][]float64
	model     string
	dimension int
	available bool
}

// embeddingFile matches the producer's JSON layout:
// {"model": "...", "embeddings": {"<card name>": [float, ...]}}
type embeddingFile struct {
	Model      string               `json:"model"`
	Embeddings map[string][]float64 `json:"embeddings"`
}

// EmptyEmbeddingStore returns an unavailable store. Lookups miss and
// HasEmbeddings reports false, pushing every caller into fallback mode.
func EmptyEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{}
}

// LoadEmbeddingStore reads the precomputed vector file. On any error the
// returned store is valid but unavailable; callers log and continue degraded
// rather than failing startup.
func LoadEmbeddingStore(path string) (*EmbeddingStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EmptyEmbeddingStore(), fmt.Errorf("failed to read embeddings file: %w", err)
	}

	var file embeddingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return EmptyEmbeddingStore(), fmt.Errorf("failed to parse embeddings file: %w", err)
	}
	if len(file.Embeddings) == 0 {
		return EmptyEmbeddingStore(), fmt.Errorf("embeddings file %s contains no vectors", path)
	}

	store := &EmbeddingStore{
		vectors: make(map[string][]float64, len(file.Embeddings)),
		model:   file.Model,
	}
	for name, vec := range file.Embeddings {
		if store.dimension == 0 {
			store.dimension = len(vec)
		}
		if len(vec) == 0 || len(vec) != store.dimension {
			// Mixed dimensionality means the file is corrupt or spans two
			// generator runs; reject the whole store.
			return EmptyEmbeddingStore(), fmt.Errorf(
				"embedding for %q has dimension %d, expected %d", name, len(vec), store.dimension)
		}
		store.vectors[NormalizeName(name)] = vec
	}

	store.available = true
	return store, nil
}

// HasEmbeddings reports whether the store loaded successfully. The ranker
// checks this once per call to pick a scoring mode.
func (s *EmbeddingStore) HasEmbeddings() bool {
	return s != nil && s.available
}

// VectorFor returns the embedding for a card name, if present. A missing
// vector means "no embedding" for that card, never a zero vector.
func (s *EmbeddingStore) VectorFor(name string) ([]float64, bool) {
	if !s.HasEmbeddings() {
		return nil, false
	}
	vec, ok := s.vectors[NormalizeName(name)]
	return vec, ok
}

// Dimension returns the shared vector dimensionality, 0 when unavailable.
func (s *EmbeddingStore) Dimension() int {
	if s == nil {
		return 0
	}
	return s.dimension
}

// Count returns the number of loaded vectors.
func (s *EmbeddingStore) Count() int {
	if s == nil {
		return 0
	}
	return len(s.vectors)
}

// Model returns the name of the model that produced the vectors.
func (s *EmbeddingStore) Model() string {
	if s == nil {
		return ""
	}
	return s.model
}

// CosineSimilarity is dot(a,b) / (||a||*||b||), clamped to [0, 1]. Vectors
// from the same semantic model rarely point in opposite directions, but a
// negative dot product must not propagate as negative similarity into a
// score meant to lie in [0, 1].
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1.0, math.Max(0.0, sim))
}
