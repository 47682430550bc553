package mysql

import (
	"treasury-desk/internal/domain/flag"
	"treasury-desk/internal/domain/withdrawal"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the withdrawal_requests and withdrawal_flags tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&withdrawal.Withdrawal{}, &flag.Flag{})
}
