package database

import (
	"embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airvista/travelsample/pkg/models"
)

//go:embed seed/*.json
var seedFS embed.FS

// Migrate creates the travel-sample schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Airport{},
		&models.Route{},
		&models.Hotel{},
		&models.User{},
		&models.Booking{},
	)
}

// Seed loads the bundled sample dataset into empty tables. Tables that
// already hold rows are left untouched so reseeding is safe.
func Seed(db *gorm.DB, logger *zap.Logger) error {
	if err := seedTable[models.Airport](db, logger, "seed/airports.json"); err != nil {
		return err
	}
	if err := seedTable[models.Route](db, logger, "seed/routes.json"); err != nil {
		return err
	}
	if err := seedTable[models.Hotel](db, logger, "seed/hotels.json"); err != nil {
		return err
	}
	return nil
}

func seedTable[T any](db *gorm.DB, logger *zap.Logger, path string) error {
	var model T
	var count int64
	if err := db.Model(&model).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count rows for %s: %w", path, err)
	}
	if count > 0 {
		return nil
	}

	raw, err := seedFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	if err := db.CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("failed to insert seed rows from %s: %w", path, err)
	}
	logger.Info("Seeded sample data", zap.String("file", path), zap.Int("rows", len(rows)))
	return nil
}
