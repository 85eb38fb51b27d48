package models

import "time"

// ReferralCode represents a user's shareable referral code.
type ReferralCode struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Code   string `gorm:"type:text;not null;uniqueIndex"` // Unique 8-char referral code.
	UserID uint64 `gorm:"not null;uniqueIndex"`           // Owning user, one code per user.

	ClaimedByUserID *uint64    `gorm:"index"` // User who claimed the code, if any.
	ClaimedAt       *time.Time // Claim time, if claimed.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
