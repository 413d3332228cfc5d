package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

var DB *gorm.DB

func Initialize(dbPath string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")

	// Dedupe prices before AutoMigrate adds the unique constraint
	if err := cleanupDuplicateCardPrices(DB); err != nil {
		return err
	}

	err = DB.AutoMigrate(&models.Card{}, &models.CardPrice{}, &models.FAQEntry{})
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
