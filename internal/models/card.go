package models

import (
	"strings"
	"time"
)

// Card is a single Sorcery: Contested Realm card as served by the Curiosa
// card API. Cards are immutable for the lifetime of a query; the whole set is
// swapped wholesale when the card store refreshes.
type Card struct {
	Slug       string         `json:"slug" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null;index"`
	Type       string         `json:"type"`
	SubTypes   []string       `json:"sub_types" gorm:"serializer:json"`
	Elements   []string       `json:"elements" gorm:"serializer:json"`
	Cost       *int           `json:"cost"`
	Attack     *int           `json:"attack"`
	Defence    *int           `json:"defence"`
	Life       *int           `json:"life"`
	Thresholds map[string]int `json:"thresholds" gorm:"serializer:json"`
	Keywords   []string       `json:"keywords" gorm:"serializer:json"`
	Rarity     string         `json:"rarity"`
	RulesText  string         `json:"rules_text"`
	ImageURL   string         `json:"image_url"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Slugify derives the stable card identity used as primary key and in
// curiosa.io URLs: lowercase, spaces to hyphens, quotes stripped.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

// HasStats reports whether the card has printed attack/defence (minions do,
// most spells don't).
func (c *Card) HasStats() bool {
	return c.Attack != nil && c.Defence != nil
}
