package engine

import (
	"fmt"
	"testing"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

func TestResolveExactForEveryCard(t *testing.T) {
	eng := newTestEngine(nil)

	// resolve(c.displayName) must be an exact match for every card.
	for _, card := range eng.CardIndex().Cards() {
		result := eng.Resolve(card.Name)
		if result.Kind != MatchExact {
			t.Errorf("Resolve(%q).Kind = %v, want exact", card.Name, result.Kind)
			continue
		}
		if result.Card.Name != card.Name {
			t.Errorf("Resolve(%q) = %q, want itself", card.Name, result.Card.Name)
		}
	}
}

func TestResolvePartialSingleCandidateIsExact(t *testing.T) {
	eng := newTestEngine(nil)

	result := eng.Resolve("apprentice")
	if result.Kind != MatchExact {
		t.Fatalf("Resolve(apprentice).Kind = %v, want exact", result.Kind)
	}
	if result.Card.Name != "Apprentice Wizard" {
		t.Errorf("Resolve(apprentice) = %q, want Apprentice Wizard", result.Card.Name)
	}
}

func TestResolvePartialOrderedBySpecificity(t *testing.T) {
	eng := newTestEngine(nil)

	result := eng.Resolve("fire")
	if result.Kind != MatchPartial {
		t.Fatalf("Resolve(fire).Kind = %v, want partial", result.Kind)
	}
	// Shortest normalized name first.
	want := []string{"Firebolt", "Wildfire", "Fire Elemental"}
	if len(result.Candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(result.Candidates), len(want))
	}
	for i, name := range want {
		if result.Candidates[i].Name != name {
			t.Errorf("Candidates[%d] = %q, want %q", i, result.Candidates[i].Name, name)
		}
	}
}

func TestResolveAmbiguousAboveCutoff(t *testing.T) {
	// Six cards sharing the word "fire" collapse to an ambiguous count.
	cards := make([]models.Card, 0, 6)
	for i := 0; i < 6; i++ {
		cards = append(cards, models.Card{Name: fmt.Sprintf("Fire Spirit %c", 'A'+i)})
	}
	eng := New(cards, nil, DefaultConfig())

	result := eng.Resolve("fire")
	if result.Kind != MatchAmbiguous {
		t.Fatalf("Resolve(fire).Kind = %v, want ambiguous", result.Kind)
	}
	if result.Count != 6 {
		t.Errorf("Count = %d, want 6", result.Count)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("ambiguous result carries %d candidates, want none", len(result.Candidates))
	}
}

func TestResolveFuzzyTypo(t *testing.T) {
	eng := newTestEngine(nil)

	result := eng.Resolve("blinc")
	if result.Kind != MatchFuzzy {
		t.Fatalf("Resolve(blinc).Kind = %v, want fuzzy", result.Kind)
	}
	if result.Card.Name != "Blink" {
		t.Errorf("Resolve(blinc) = %q, want Blink", result.Card.Name)
	}
	if result.Confidence < 0.75 {
		t.Errorf("Confidence = %v, want >= 0.75", result.Confidence)
	}
}

func TestResolveFuzzyTieBreaksLexicographically(t *testing.T) {
	cards := []models.Card{
		{Name: "Corn"},
		{Name: "Barn"},
	}
	eng := New(cards, nil, DefaultConfig())

	// "born" is distance 1 from both; the lexicographically first
	// normalized name must win, independent of load order.
	result := eng.Resolve("born")
	if result.Kind != MatchFuzzy {
		t.Fatalf("Resolve(born).Kind = %v, want fuzzy", result.Kind)
	}
	if result.Card.Name != "Barn" {
		t.Errorf("Resolve(born) = %q, want Barn", result.Card.Name)
	}
}

func TestResolveNotFound(t *testing.T) {
	eng := newTestEngine(nil)

	tests := []string{"zzzzzzzzzz", "completely unrelated words", ""}
	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			result := eng.Resolve(query)
			if result.Kind != MatchNotFound {
				t.Errorf("Resolve(%q).Kind = %v, want not_found", query, result.Kind)
			}
		})
	}
}

func TestResolveEmptyIndex(t *testing.T) {
	eng := New(nil, nil, DefaultConfig())

	result := eng.Resolve("Blink")
	if result.Kind != MatchNotFound {
		t.Errorf("Resolve on empty index = %v, want not_found", result.Kind)
	}
}
