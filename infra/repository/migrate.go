package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the wallet and ledger tables, their
// indexes and check constraints.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
