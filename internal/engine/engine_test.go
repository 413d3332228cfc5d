package engine

import (
	"github.com/pnakotic/sorcery-bot/internal/models"
)

// intp is a shorthand for optional numeric card fields in fixtures.
func intp(v int) *int { return &v }

// testCards is a small snapshot shaped like the live card set: a spellcaster
// with card draw, some minions, and a cheap utility spell. Fixture order
// matters for the stable-iteration tests.
func testCards() []models.Card {
	return []models.Card{
		{
			Name:      "Blink",
			Type:      "Magic",
			Elements:  []string{"Air"},
			Cost:      intp(1),
			RulesText: "Teleport target minion you control to any cell.",
		},
		{
			Name:      "Apprentice Wizard",
			Type:      "Minion",
			SubTypes:  []string{"Mortal", "Wizard"},
			Elements:  []string{"Air"},
			Cost:      intp(2),
			Attack:    intp(1),
			Defence:   intp(2),
			RulesText: "Genesis → Draw a spell from your spellbook.",
		},
		{
			Name:      "Archmage",
			Type:      "Minion",
			SubTypes:  []string{"Mortal", "Wizard"},
			Elements:  []string{"Air"},
			Cost:      intp(5),
			Attack:    intp(3),
			Defence:   intp(4),
			RulesText: "Spellcaster. Genesis → Draw a spell from your spellbook.",
		},
		{
			Name:      "Fire Elemental",
			Type:      "Minion",
			SubTypes:  []string{"Elemental"},
			Elements:  []string{"Fire"},
			Cost:      intp(2),
			Attack:    intp(4),
			Defence:   intp(3),
			RulesText: "Deals 1 damage to adjacent minions.",
		},
		{
			Name:      "Firebolt",
			Type:      "Magic",
			Elements:  []string{"Fire"},
			Cost:      intp(2),
			RulesText: "Deals 3 damage to target minion.",
		},
		{
			Name:      "Wildfire",
			Type:      "Magic",
			Elements:  []string{"Fire"},
			Cost:      intp(4),
			RulesText: "Deals 2 damage to each minion in target row.",
		},
	}
}

func newTestEngine(store *EmbeddingStore) *Engine {
	return New(testCards(), store, DefaultConfig())
}
