package models

import "time"

// Merchant represents a participating merchant with aggregate counters.
type Merchant struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	UUID string `gorm:"type:text;not null;uniqueIndex"` // External-facing identifier.

	Name     string `gorm:"type:text;not null"` // Display name.
	Category string `gorm:"type:text"`          // Optional merchant category.

	ActiveOffers     int `gorm:"not null;default:0"` // Count of currently active offers.
	TotalOffers      int `gorm:"not null;default:0"` // Count of offers ever created.
	TotalRedemptions int `gorm:"not null;default:0"` // Count of redemptions across all offers.

	IsApproved bool `gorm:"not null;default:false"` // Whether onboarding approval completed.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
