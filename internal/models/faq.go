package models

import "time"

// FAQEntry is one question/answer pair scraped from the curiosa.io FAQ page,
// keyed by the card it belongs to. All entries for a card are shown, no
// truncation.
type FAQEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CardName  string    `json:"card_name" gorm:"not null;index"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
