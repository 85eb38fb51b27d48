package models

import "time"

// User represents a subscriber account.
type User struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	UUID string `gorm:"type:text;not null;uniqueIndex"` // External-facing identifier.

	Email    string `gorm:"type:text;not null;uniqueIndex"` // Login email.
	Name     string `gorm:"type:text;not null"`             // Display name.
	Password string `gorm:"type:text;not null"`             // Bcrypt password hash.

	MerchantID *uint64 `gorm:"index"` // Set for merchant-side verifier accounts.

	Disabled bool `gorm:"not null;default:false"` // Whether the account is blocked.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
