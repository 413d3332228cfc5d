package models

import (
	"time"
)

// PriceCondition maps to JustTCG condition strings
type PriceCondition string

const (
	PriceConditionNM  PriceCondition = "NM"  // Near Mint
	PriceConditionLP  PriceCondition = "LP"  // Lightly Played
	PriceConditionMP  PriceCondition = "MP"  // Moderately Played
	PriceConditionHP  PriceCondition = "HP"  // Heavily Played
	PriceConditionDMG PriceCondition = "DMG" // Damaged
)

// PrintingType represents card printing variants from JustTCG API
type PrintingType string

const (
	PrintingNormal  PrintingType = "Normal"
	PrintingFoil    PrintingType = "Foil"
	PrintingRainbow PrintingType = "Rainbow Foil"
)

// CardPrice stores a condition/printing-specific price observation for a card.
// Rows are upserted on refresh so each (card, condition, printing) keeps only
// its latest price.
type CardPrice struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	CardSlug       string         `json:"card_slug" gorm:"not null;uniqueIndex:idx_card_cond_print"`
	Condition      PriceCondition `json:"condition" gorm:"not null;uniqueIndex:idx_card_cond_print"`
	Printing       PrintingType   `json:"printing" gorm:"not null;uniqueIndex:idx_card_cond_print;default:'Normal'"`
	PriceUSD       float64        `json:"price_usd"`
	Change7d       *float64       `json:"change_7d"`
	Change30d      *float64       `json:"change_30d"`
	Source         string         `json:"source"` // "justtcg" (sole price source)
	PriceUpdatedAt *time.Time     `json:"price_updated_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// AllPriceConditions returns all valid price conditions
func AllPriceConditions() []PriceCondition {
	return []PriceCondition{
		PriceConditionNM,
		PriceConditionLP,
		PriceConditionMP,
		PriceConditionHP,
		PriceConditionDMG,
	}
}
