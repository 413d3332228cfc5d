package engine

import (
	"testing"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

func TestIndexResolveExact(t *testing.T) {
	ix := NewIndex(testCards())

	tests := []struct {
		query string
		want  string
	}{
		{"Blink", "Blink"},
		{"blink", "Blink"},
		{"  APPRENTICE   WIZARD  ", "Apprentice Wizard"},
		{"fire elemental", "Fire Elemental"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			card := ix.ResolveExact(tt.query)
			if card == nil {
				t.Fatalf("ResolveExact(%q) = nil, want %q", tt.query, tt.want)
			}
			if card.Name != tt.want {
				t.Errorf("ResolveExact(%q) = %q, want %q", tt.query, card.Name, tt.want)
			}
		})
	}

	if card := ix.ResolveExact("no such card"); card != nil {
		t.Errorf("ResolveExact(unknown) = %q, want nil", card.Name)
	}
}

func TestIndexBySlug(t *testing.T) {
	ix := NewIndex(testCards())

	if card := ix.BySlug("apprentice-wizard"); card == nil || card.Name != "Apprentice Wizard" {
		t.Errorf("BySlug(apprentice-wizard) = %v, want Apprentice Wizard", card)
	}
	if card := ix.BySlug("missing"); card != nil {
		t.Errorf("BySlug(missing) = %q, want nil", card.Name)
	}
}

func TestIndexStableIterationOrder(t *testing.T) {
	ix := NewIndex(testCards())

	first := ix.Cards()
	second := ix.Cards()
	if len(first) != len(second) {
		t.Fatalf("Cards() length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("Cards()[%d] = %q then %q, want stable order", i, first[i].Name, second[i].Name)
		}
	}

	// Insertion order from load is preserved.
	want := []string{"Blink", "Apprentice Wizard", "Archmage", "Fire Elemental", "Firebolt", "Wildfire"}
	for i, name := range want {
		if first[i].Name != name {
			t.Errorf("Cards()[%d] = %q, want %q", i, first[i].Name, name)
		}
	}
}

func TestEmptyIndexIsDegradedNotFatal(t *testing.T) {
	ix := NewIndex(nil)

	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
	if card := ix.ResolveExact("Blink"); card != nil {
		t.Errorf("ResolveExact on empty index = %q, want nil", card.Name)
	}
	if cards := ix.Cards(); len(cards) != 0 {
		t.Errorf("Cards() on empty index has %d entries, want 0", len(cards))
	}
}

func TestIndexFillsMissingSlugs(t *testing.T) {
	cards := []models.Card{{Name: "Sir Pellinore's Quest"}}
	eng := New(cards, nil, DefaultConfig())

	if card := eng.CardIndex().BySlug("sir-pellinores-quest"); card == nil {
		t.Error("expected slug derived from display name")
	}
}
