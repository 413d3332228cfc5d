package engine

import (
	"testing"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

// storeFromVectors builds an available embedding store for tests without
// going through a file.
func storeFromVectors(vectors map[string][]float64) *EmbeddingStore {
	store := &EmbeddingStore{
		vectors: make(map[string][]float64, len(vectors)),
		model:   "test",
	}
	for name, vec := range vectors {
		if store.dimension == 0 {
			store.dimension = len(vec)
		}
		store.vectors[NormalizeName(name)] = vec
	}
	store.available = true
	return store
}

func TestRankExcludesTarget(t *testing.T) {
	eng := newTestEngine(nil)
	cards := eng.CardIndex().Cards()

	for i := range cards {
		target := &cards[i]
		for _, rc := range eng.Rank(target, len(cards)) {
			if rc.Card.Slug == target.Slug {
				t.Errorf("Rank(%q) included the target itself", target.Name)
			}
		}
	}
}

func TestRankDeterministic(t *testing.T) {
	eng := newTestEngine(nil)
	target := eng.CardIndex().ResolveExact("Apprentice Wizard")

	// Scores must be bit-identical across calls, not merely close: float
	// addition order changes the low bits, and near ties flip ordering.
	first := eng.Rank(target, 5)
	for i := 0; i < 2000; i++ {
		again := eng.Rank(target, 5)
		if len(again) != len(first) {
			t.Fatalf("Rank length changed: %d vs %d", len(first), len(again))
		}
		for j := range first {
			if first[j].Card.Slug != again[j].Card.Slug {
				t.Fatalf("Iteration %d: order changed at position %d: %q vs %q",
					i, j, first[j].Card.Name, again[j].Card.Name)
			}
			if first[j].Score != again[j].Score {
				t.Fatalf("Iteration %d: score for %q = %.20g then %.20g",
					i, first[j].Card.Name, first[j].Score, again[j].Score)
			}
		}
	}
}

func TestRankFallbackModeWhenStoreUnavailable(t *testing.T) {
	eng := New(testCards(), EmptyEmbeddingStore(), DefaultConfig())
	target := eng.CardIndex().ResolveExact("Firebolt")

	ranked := eng.Rank(target, 5)
	if len(ranked) == 0 {
		t.Fatal("Rank returned empty list, want fallback-scored results")
	}
	for _, rc := range ranked {
		if rc.Mode != ModeFallback {
			t.Errorf("Mode for %q = %v, want fallback", rc.Card.Name, rc.Mode)
		}
	}
}

func TestRankEmbeddingMode(t *testing.T) {
	// Archmage shares Apprentice Wizard's spell-draw ability and element;
	// Fire Elemental only matches on mana cost. With embeddings present the
	// semantically similar wizard must rank first.
	store := storeFromVectors(map[string][]float64{
		"Apprentice Wizard": {1, 0, 0.1},
		"Archmage":          {0.9, 0.1, 0.1},
		"Fire Elemental":    {0, 1, 0},
		"Blink":             {0.2, 0.3, 1},
		"Firebolt":          {0, 0.9, 0.3},
		"Wildfire":          {0, 0.8, 0.4},
	})
	eng := New(testCards(), store, DefaultConfig())
	target := eng.CardIndex().ResolveExact("Apprentice Wizard")

	ranked := eng.Rank(target, 5)
	if len(ranked) == 0 {
		t.Fatal("Rank returned empty list")
	}
	if ranked[0].Card.Name != "Archmage" {
		t.Errorf("top replacement = %q, want Archmage", ranked[0].Card.Name)
	}
	if ranked[0].Mode != ModeEmbedding {
		t.Errorf("top replacement mode = %v, want embedding", ranked[0].Mode)
	}
	if ranked[0].TopFactor != "vector" {
		t.Errorf("top factor = %q, want vector", ranked[0].TopFactor)
	}

	archmagePos, elementalPos := -1, -1
	for i, rc := range ranked {
		switch rc.Card.Name {
		case "Archmage":
			archmagePos = i
		case "Fire Elemental":
			elementalPos = i
		}
	}
	if archmagePos == -1 || elementalPos == -1 {
		t.Fatalf("expected both Archmage and Fire Elemental in results")
	}
	if archmagePos > elementalPos {
		t.Errorf("Archmage ranked below Fire Elemental (%d vs %d)", archmagePos, elementalPos)
	}
}

func TestRankMixedModeDemotion(t *testing.T) {
	// Store has the target and one candidate; every other candidate is
	// scored in fallback mode for itself alone, never excluded.
	store := storeFromVectors(map[string][]float64{
		"Apprentice Wizard": {1, 0, 0},
		"Archmage":          {0.9, 0.1, 0},
	})
	eng := New(testCards(), store, DefaultConfig())
	target := eng.CardIndex().ResolveExact("Apprentice Wizard")

	ranked := eng.Rank(target, 10)
	if len(ranked) != 5 {
		t.Fatalf("got %d results, want all 5 non-target cards", len(ranked))
	}

	modes := map[string]ScoreMode{}
	for _, rc := range ranked {
		modes[rc.Card.Name] = rc.Mode
	}
	if modes["Archmage"] != ModeEmbedding {
		t.Errorf("Archmage mode = %v, want embedding", modes["Archmage"])
	}
	for _, name := range []string{"Blink", "Fire Elemental", "Firebolt", "Wildfire"} {
		if modes[name] != ModeFallback {
			t.Errorf("%s mode = %v, want fallback demotion", name, modes[name])
		}
	}
}

func TestRankFallbackWhenTargetLacksVector(t *testing.T) {
	// Store is available but the target card is newer than the embedding
	// generation; the whole call uses fallback mode.
	store := storeFromVectors(map[string][]float64{
		"Archmage": {1, 0, 0},
	})
	eng := New(testCards(), store, DefaultConfig())
	target := eng.CardIndex().ResolveExact("Apprentice Wizard")

	for _, rc := range eng.Rank(target, 5) {
		if rc.Mode != ModeFallback {
			t.Errorf("Mode for %q = %v, want fallback", rc.Card.Name, rc.Mode)
		}
	}
}

func TestRankTopK(t *testing.T) {
	eng := newTestEngine(nil)
	target := eng.CardIndex().ResolveExact("Blink")

	if got := len(eng.Rank(target, 2)); got != 2 {
		t.Errorf("Rank(topK=2) returned %d results", got)
	}
	// Non-positive topK falls back to the configured default.
	if got := len(eng.Rank(target, 0)); got != DefaultConfig().DefaultTopK {
		t.Errorf("Rank(topK=0) returned %d results, want %d", got, DefaultConfig().DefaultTopK)
	}
	if got := len(eng.Rank(target, 100)); got != 5 {
		t.Errorf("Rank(topK=100) returned %d results, want all 5", got)
	}
}

func TestRankEmptyUniverse(t *testing.T) {
	eng := New(nil, nil, DefaultConfig())
	target := &models.Card{Slug: "blink", Name: "Blink"}

	ranked := eng.Rank(target, 5)
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("Rank on empty universe = %v, want empty list", ranked)
	}
}

func TestRankTieBreakByCostThenName(t *testing.T) {
	// Three identical spells guarantee score ties; order must be cost
	// ascending, then lexicographic name.
	cards := []models.Card{
		{Name: "Target", Type: "Magic", Elements: []string{"Fire"}, Cost: intp(3)},
		{Name: "Zephyr", Type: "Magic", Elements: []string{"Fire"}, Cost: intp(3)},
		{Name: "Aurora", Type: "Magic", Elements: []string{"Fire"}, Cost: intp(3)},
		{Name: "Bonfire", Type: "Magic", Elements: []string{"Fire"}, Cost: intp(2)},
	}
	eng := New(cards, nil, DefaultConfig())
	target := eng.CardIndex().ResolveExact("Target")

	ranked := eng.Rank(target, 5)
	want := []string{"Aurora", "Zephyr", "Bonfire"}

	// Aurora and Zephyr tie on every sub-score at cost 3; Bonfire differs on
	// cost closeness so it scores lower despite the cheaper cost.
	if len(ranked) != len(want) {
		t.Fatalf("got %d results, want %d", len(ranked), len(want))
	}
	for i, name := range want {
		if ranked[i].Card.Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Card.Name, name)
		}
	}
}
