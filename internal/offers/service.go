package offers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	internaldb "github.com/trailperks/trailperks-server/internal/db"
	"github.com/trailperks/trailperks-server/internal/merchants"
	"github.com/trailperks/trailperks-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns the offer lifecycle and the redemption ledger.
type Service struct {
	db        *gorm.DB
	merchants *merchants.Store
	now       func() time.Time
}

// NewService constructs an offer service.
func NewService(db *gorm.DB, merchantStore *merchants.Store) *Service {
	if db == nil || merchantStore == nil {
		return nil
	}
	return &Service{
		db:        db,
		merchants: merchantStore,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOfferParams holds inputs for offer creation.
type CreateOfferParams struct {
	MerchantID        uint64
	Title             string
	Details           string
	DiscountType      models.DiscountType
	DiscountValue     decimal.Decimal
	MinPurchaseAmount *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ValidFrom         time.Time
	ValidUntil        time.Time
	UsageLimit        *int
	UsageLimitPerUser *int
	Publish           bool
}

// UpdateOfferParams holds inputs for offer updates. The owning merchant is
// immutable after creation.
type UpdateOfferParams struct {
	Title             string
	Details           string
	DiscountType      models.DiscountType
	DiscountValue     decimal.Decimal
	MinPurchaseAmount *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ValidFrom         time.Time
	ValidUntil        time.Time
	UsageLimit        *int
	UsageLimitPerUser *int
}

// CreateOffer validates and persists a new offer. Publishing immediately
// bumps the merchant's active-offer counter.
func (s *Service) CreateOffer(ctx context.Context, params CreateOfferParams) (*models.Offer, error) {
	if errValidate := validateOfferShape(params.Title, params.DiscountType, params.DiscountValue,
		params.MinPurchaseAmount, params.MaxDiscountAmount, params.ValidFrom, params.ValidUntil,
		params.UsageLimit, params.UsageLimitPerUser); errValidate != nil {
		return nil, errValidate
	}
	if _, errMerchant := s.merchants.Get(ctx, params.MerchantID); errMerchant != nil {
		return nil, errMerchant
	}

	status := models.OfferStatusDraft
	if params.Publish {
		status = models.OfferStatusActive
	}
	offer := &models.Offer{
		UUID:              uuid.NewString(),
		MerchantID:        params.MerchantID,
		Title:             strings.TrimSpace(params.Title),
		Details:           strings.TrimSpace(params.Details),
		DiscountType:      params.DiscountType,
		DiscountValue:     params.DiscountValue,
		MinPurchaseAmount: params.MinPurchaseAmount,
		MaxDiscountAmount: params.MaxDiscountAmount,
		ValidFrom:         params.ValidFrom.UTC(),
		ValidUntil:        params.ValidUntil.UTC(),
		UsageLimit:        params.UsageLimit,
		UsageLimitPerUser: params.UsageLimitPerUser,
		Status:            status,
	}

	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(offer).Error; errCreate != nil {
			return errCreate
		}
		activeDelta := 0
		if status == models.OfferStatusActive {
			activeDelta = 1
		}
		return s.merchants.AdjustOfferCounters(ctx, tx, params.MerchantID, activeDelta, 1)
	})
	if errTx != nil {
		return nil, errTx
	}
	return offer, nil
}

// UpdateOffer validates and applies updates to an existing offer.
func (s *Service) UpdateOffer(ctx context.Context, offerUUID string, params UpdateOfferParams) (*models.Offer, error) {
	if errValidate := validateOfferShape(params.Title, params.DiscountType, params.DiscountValue,
		params.MinPurchaseAmount, params.MaxDiscountAmount, params.ValidFrom, params.ValidUntil,
		params.UsageLimit, params.UsageLimitPerUser); errValidate != nil {
		return nil, errValidate
	}

	var offer models.Offer
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errFind := lockForUpdate(tx).Where("uuid = ?", offerUUID).First(&offer).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return errFind
		}
		if offer.Status == models.OfferStatusExpired {
			return invalidState(reasonOfferNotValid)
		}

		offer.Title = strings.TrimSpace(params.Title)
		offer.Details = strings.TrimSpace(params.Details)
		offer.DiscountType = params.DiscountType
		offer.DiscountValue = params.DiscountValue
		offer.MinPurchaseAmount = params.MinPurchaseAmount
		offer.MaxDiscountAmount = params.MaxDiscountAmount
		offer.ValidFrom = params.ValidFrom.UTC()
		offer.ValidUntil = params.ValidUntil.UTC()
		offer.UsageLimit = params.UsageLimit
		offer.UsageLimitPerUser = params.UsageLimitPerUser
		return tx.Save(&offer).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	return &offer, nil
}

// PublishOffer moves a draft offer to ACTIVE.
func (s *Service) PublishOffer(ctx context.Context, offerUUID string) (*models.Offer, error) {
	return s.transitionOffer(ctx, offerUUID, models.OfferStatusDraft, models.OfferStatusActive, 1)
}

// PauseOffer moves an active offer to PAUSED.
func (s *Service) PauseOffer(ctx context.Context, offerUUID string) (*models.Offer, error) {
	return s.transitionOffer(ctx, offerUUID, models.OfferStatusActive, models.OfferStatusPaused, -1)
}

// ResumeOffer moves a paused offer back to ACTIVE.
func (s *Service) ResumeOffer(ctx context.Context, offerUUID string) (*models.Offer, error) {
	return s.transitionOffer(ctx, offerUUID, models.OfferStatusPaused, models.OfferStatusActive, 1)
}

// transitionOffer applies a guarded status transition and adjusts the owning
// merchant's active-offer counter.
func (s *Service) transitionOffer(ctx context.Context, offerUUID string, from, to models.OfferStatus, activeDelta int) (*models.Offer, error) {
	var offer models.Offer
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errFind := lockForUpdate(tx).Where("uuid = ?", offerUUID).First(&offer).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return errFind
		}
		if offer.Status != from {
			return invalidState(reasonOfferNotValid)
		}
		res := tx.Model(&models.Offer{}).
			Where("id = ? AND status = ?", offer.ID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState(reasonOfferNotValid)
		}
		offer.Status = to
		return s.merchants.AdjustOfferCounters(ctx, tx, offer.MerchantID, activeDelta, 0)
	})
	if errTx != nil {
		return nil, errTx
	}
	return &offer, nil
}

// GetOffer loads an offer by its external UUID.
func (s *Service) GetOffer(ctx context.Context, offerUUID string) (*models.Offer, error) {
	var offer models.Offer
	if errFind := s.db.WithContext(ctx).Where("uuid = ?", offerUUID).First(&offer).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, errFind
	}
	return &offer, nil
}

// ListMerchantOffers returns a merchant's offers, optionally filtered by a
// case-insensitive title search.
func (s *Service) ListMerchantOffers(ctx context.Context, merchantID uint64, search string) ([]models.Offer, error) {
	query := s.db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	search = strings.TrimSpace(search)
	if search != "" {
		query = query.Where(
			internaldb.CaseInsensitiveLikeExpr(s.db, "title"),
			internaldb.NormalizeLikePattern(s.db, "%"+search+"%"),
		)
	}
	var offers []models.Offer
	if errFind := query.Order("created_at DESC").Find(&offers).Error; errFind != nil {
		return nil, errFind
	}
	return offers, nil
}

// ListActiveOffers returns offers currently open for redemption.
func (s *Service) ListActiveOffers(ctx context.Context) ([]models.Offer, error) {
	now := s.now()
	var offers []models.Offer
	if errFind := s.db.WithContext(ctx).
		Where("status = ? AND valid_from <= ? AND valid_until >= ?", models.OfferStatusActive, now, now).
		Order("valid_until ASC").
		Find(&offers).Error; errFind != nil {
		return nil, errFind
	}
	return offers, nil
}

// validateOfferShape rejects malformed offer parameters before any persistence.
func validateOfferShape(title string, discountType models.DiscountType, discountValue decimal.Decimal,
	minPurchase, maxDiscount *decimal.Decimal, validFrom, validUntil time.Time,
	usageLimit, usageLimitPerUser *int) error {
	if strings.TrimSpace(title) == "" {
		return invalidArgumentf("offer title is required")
	}
	switch discountType {
	case models.DiscountPercentage:
		if discountValue.IsNegative() || discountValue.GreaterThan(oneHundred) {
			return invalidArgumentf("percentage discount value must be between 0 and 100")
		}
	case models.DiscountFixedAmount:
		if discountValue.IsNegative() {
			return invalidArgumentf("discount value must not be negative")
		}
	default:
		return invalidArgumentf("unsupported discount type: %s", discountType)
	}
	if minPurchase != nil && minPurchase.IsNegative() {
		return invalidArgumentf("minimum purchase amount must not be negative")
	}
	if maxDiscount != nil && maxDiscount.IsNegative() {
		return invalidArgumentf("maximum discount amount must not be negative")
	}
	if validFrom.IsZero() || validUntil.IsZero() {
		return invalidArgumentf("validity window is required")
	}
	if validUntil.Before(validFrom) {
		return invalidArgumentf("valid_until must not be before valid_from")
	}
	if usageLimit != nil && *usageLimit <= 0 {
		return invalidArgumentf("usage limit must be positive")
	}
	if usageLimitPerUser != nil && *usageLimitPerUser <= 0 {
		return invalidArgumentf("per-user usage limit must be positive")
	}
	return nil
}

// lockForUpdate adds a row lock on dialects that support it. SQLite
// serializes writers on its own and rejects FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if internaldb.IsSQLite(tx) {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
