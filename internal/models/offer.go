package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage of the purchase amount.
	DiscountPercentage DiscountType = "PERCENTAGE"
	// DiscountFixedAmount applies a flat monetary discount.
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

// OfferStatus enumerates offer lifecycle states.
type OfferStatus string

const (
	// OfferStatusDraft marks an offer that is not yet published.
	OfferStatusDraft OfferStatus = "DRAFT"
	// OfferStatusActive marks an offer open for redemption.
	OfferStatusActive OfferStatus = "ACTIVE"
	// OfferStatusPaused marks an offer temporarily withheld by its merchant.
	OfferStatusPaused OfferStatus = "PAUSED"
	// OfferStatusExpired marks an offer past its validity window.
	OfferStatusExpired OfferStatus = "EXPIRED"
)

// Offer represents a merchant-issued discount contract.
type Offer struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	UUID string `gorm:"type:text;not null;uniqueIndex"` // External-facing identifier.

	MerchantID uint64    `gorm:"not null;index"`          // Owning merchant, immutable after creation.
	Merchant   *Merchant `gorm:"foreignKey:MerchantID"`   // Owning merchant record.
	Title      string    `gorm:"type:text;not null"`      // Display title.
	Details    string    `gorm:"type:text"`               // Optional fine print.

	DiscountType      DiscountType     `gorm:"type:text;not null"`          // Discount strategy.
	DiscountValue     decimal.Decimal  `gorm:"type:decimal(12,2);not null"` // Percentage 0-100 or flat amount.
	MinPurchaseAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`          // Purchases below this earn no discount.
	MaxDiscountAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`          // Cap on the computed discount.

	ValidFrom  time.Time `gorm:"not null"` // Start of the validity window.
	ValidUntil time.Time `gorm:"not null"` // End of the validity window.

	UsageLimit        *int `gorm:""`                        // Total redemption cap, nil = unlimited.
	UsageLimitPerUser *int `gorm:""`                        // Per-user redemption cap, nil = unlimited.
	TotalRedemptions  int  `gorm:"not null;default:0"`      // Mutated only by the redemption ledger.

	Status OfferStatus `gorm:"type:text;not null;index"` // Lifecycle state.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
