package engine

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeEmbeddingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed writing fixture: %v", err)
	}
	return path
}

func TestLoadEmbeddingStore(t *testing.T) {
	path := writeEmbeddingsFile(t, `{
		"model": "all-MiniLM-L6-v2",
		"embeddings": {
			"Blink": [1, 0, 0],
			"Apprentice Wizard": [0, 1, 0]
		}
	}`)

	store, err := LoadEmbeddingStore(path)
	if err != nil {
		t.Fatalf("LoadEmbeddingStore() error = %v", err)
	}
	if !store.HasEmbeddings() {
		t.Fatal("HasEmbeddings() = false, want true")
	}
	if store.Dimension() != 3 {
		t.Errorf("Dimension() = %d, want 3", store.Dimension())
	}
	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2", store.Count())
	}
	if store.Model() != "all-MiniLM-L6-v2" {
		t.Errorf("Model() = %q", store.Model())
	}

	// Lookup is normalization-tolerant.
	if _, ok := store.VectorFor("blink"); !ok {
		t.Error("VectorFor(blink) missing, want hit")
	}
	if _, ok := store.VectorFor("Unknown Card"); ok {
		t.Error("VectorFor(unknown) hit, want miss")
	}
}

func TestLoadEmbeddingStoreAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"corrupt json", `{"model": "m", "embeddings": {`},
		{"empty map", `{"model": "m", "embeddings": {}}`},
		{"dimension mismatch", `{"model": "m", "embeddings": {"A": [1, 0], "B": [1, 0, 0]}}`},
		{"empty vector", `{"model": "m", "embeddings": {"A": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeEmbeddingsFile(t, tt.content)
			store, err := LoadEmbeddingStore(path)
			if err == nil {
				t.Error("LoadEmbeddingStore() error = nil, want error")
			}
			if store == nil {
				t.Fatal("store = nil, want unavailable store")
			}
			if store.HasEmbeddings() {
				t.Error("HasEmbeddings() = true for defective file, want false")
			}
			if _, ok := store.VectorFor("A"); ok {
				t.Error("VectorFor on unavailable store returned a hit")
			}
		})
	}
}

func TestLoadEmbeddingStoreMissingFile(t *testing.T) {
	store, err := LoadEmbeddingStore(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("LoadEmbeddingStore(missing) error = nil, want error")
	}
	if store.HasEmbeddings() {
		t.Error("HasEmbeddings() = true for missing file, want false")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite clamps to zero", []float64{1, 0}, []float64{-1, 0}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
		{"length mismatch", []float64{1, 0}, []float64{1}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityAlwaysInUnitRange(t *testing.T) {
	vectors := [][]float64{
		{1, 2, 3},
		{-1, -2, -3},
		{0.5, -0.5, 0.1},
		{100, 0, 0},
		{-3, 7, -1},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			got := CosineSimilarity(a, b)
			if got < 0 || got > 1 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, outside [0, 1]", a, b, got)
			}
		}
	}
}
