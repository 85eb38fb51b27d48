package db

import (
	"fmt"

	"github.com/trailperks/trailperks-server/internal/models"
	"gorm.io/gorm"
)

// Migrate auto-migrates all persisted models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.Merchant{},
		&models.User{},
		&models.Offer{},
		&models.Redemption{},
		&models.ReferralCode{},
		&models.Setting{},
	)
}
