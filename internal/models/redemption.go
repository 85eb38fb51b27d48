package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RedemptionStatus enumerates redemption lifecycle states.
type RedemptionStatus string

const (
	// RedemptionStatusPending marks a redemption awaiting merchant verification.
	RedemptionStatusPending RedemptionStatus = "PENDING"
	// RedemptionStatusCompleted marks a redemption confirmed by a verifier.
	RedemptionStatusCompleted RedemptionStatus = "COMPLETED"
	// RedemptionStatusExpired marks a redemption left pending past the staleness window.
	RedemptionStatusExpired RedemptionStatus = "EXPIRED"
	// RedemptionStatusCancelled marks a redemption voided before verification.
	RedemptionStatusCancelled RedemptionStatus = "CANCELLED"
)

// Redemption represents one instance of a user applying an offer to a purchase.
type Redemption struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	UUID string `gorm:"type:text;not null;uniqueIndex"` // External-facing identifier.

	OfferID    uint64 `gorm:"not null;index"` // Redeemed offer.
	Offer      *Offer `gorm:"foreignKey:OfferID"`
	UserID     uint64 `gorm:"not null;index"` // Redeeming user.
	MerchantID uint64 `gorm:"not null;index"` // Merchant owning the offer.

	PurchaseAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Gross purchase amount.
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Computed discount.
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Purchase minus discount, never negative.

	VerificationCode string `gorm:"type:text;not null;index"` // 8-char code presented to the verifier.

	MerchantLocationID *uint64 `gorm:"index"`      // Optional redeeming location.
	Method             string  `gorm:"type:text"`  // Optional redemption channel.
	Notes              string  `gorm:"type:text"`  // Optional free-form notes.

	Status RedemptionStatus `gorm:"type:text;not null;index"` // Lifecycle state.

	VerifiedByUserID *uint64    `gorm:"index"` // Verifier, set on completion.
	VerifiedAt       *time.Time // Verification time, set on completion.
	RedeemedAt       *time.Time // Redemption time, set on completion.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
