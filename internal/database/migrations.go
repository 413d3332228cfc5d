package database

import (
	"log"

	"gorm.io/gorm"
)

// cleanupDuplicateCardPrices removes duplicate card_prices entries before the
// unique constraint is added. Runs BEFORE AutoMigrate to prevent constraint
// violations on databases written by older builds.
func cleanupDuplicateCardPrices(db *gorm.DB) error {
	if !db.Migrator().HasTable("card_prices") {
		return nil // No table, no duplicates to clean
	}

	// Normalize NULL/empty printing values to 'Normal'
	result := db.Exec(`UPDATE card_prices SET printing = 'Normal' WHERE printing IS NULL OR printing = ''`)
	if result.Error != nil {
		log.Printf("Warning: failed to normalize printing values: %v", result.Error)
	}

	// Remove duplicates, keeping the most recently inserted row. The id
	// column holds uuid strings, so rowid is the reliable insertion order.
	result = db.Exec(`
		DELETE FROM card_prices
		WHERE rowid NOT IN (
			SELECT MAX(rowid)
			FROM card_prices
			GROUP BY card_slug, condition, printing
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d duplicate card_prices entries", result.RowsAffected)
	}

	return nil
}
