package offers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/trailperks/trailperks-server/internal/codegen"
	"github.com/trailperks/trailperks-server/internal/models"
	"gorm.io/gorm"
)

// verificationCodeLength is the fixed length of redemption verification codes.
const verificationCodeLength = 8

// RedeemParams holds inputs for a redemption attempt.
type RedeemParams struct {
	OfferUUID          string
	UserID             uint64
	PurchaseAmount     *decimal.Decimal
	MerchantLocationID *uint64
	Method             string
	Notes              string
}

// Redeem admits a redemption attempt against an offer. The eligibility
// recheck, counter increment, and redemption insert run in one transaction
// with the offer row locked, so a capped offer cannot be oversubscribed by
// concurrent attempts. Nothing is persisted when admission fails.
func (s *Service) Redeem(ctx context.Context, params RedeemParams) (*models.Redemption, error) {
	now := s.now()
	var created *models.Redemption

	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.Offer
		if errFind := lockForUpdate(tx).Where("uuid = ?", params.OfferUUID).First(&offer).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return errFind
		}

		if errCheck := s.checkEligible(ctx, tx, &offer, params.UserID, now); errCheck != nil {
			return errCheck
		}

		discount, final := ComputeDiscount(&offer, params.PurchaseAmount)
		purchase := decimal.Zero
		if params.PurchaseAmount != nil && params.PurchaseAmount.IsPositive() {
			purchase = *params.PurchaseAmount
		}

		code, errCode := codegen.Generate(codegen.DefaultAlphabet, verificationCodeLength, func(candidate string) (bool, error) {
			var count int64
			errCount := tx.Model(&models.Redemption{}).
				Where("verification_code = ? AND status IN ?", candidate, []models.RedemptionStatus{
					models.RedemptionStatusPending,
					models.RedemptionStatusCompleted,
				}).
				Count(&count).Error
			return count > 0, errCount
		})
		if errCode != nil {
			return errCode
		}

		redemption := &models.Redemption{
			UUID:               uuid.NewString(),
			OfferID:            offer.ID,
			UserID:             params.UserID,
			MerchantID:         offer.MerchantID,
			PurchaseAmount:     purchase,
			DiscountAmount:     discount,
			FinalAmount:        final,
			VerificationCode:   code,
			MerchantLocationID: params.MerchantLocationID,
			Method:             params.Method,
			Notes:              params.Notes,
			Status:             models.RedemptionStatusPending,
			CreatedAt:          now,
		}
		if errCreate := tx.Create(redemption).Error; errCreate != nil {
			return errCreate
		}

		if errIncrement := tx.Model(&models.Offer{}).
			Where("id = ?", offer.ID).
			Update("total_redemptions", gorm.Expr("total_redemptions + 1")).Error; errIncrement != nil {
			return errIncrement
		}
		if errCounters := s.merchants.IncrementRedemptions(ctx, tx, offer.MerchantID); errCounters != nil {
			return errCounters
		}

		created = redemption
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	log.Infof("redemption %s created for offer %s (user=%d discount=%s)",
		created.UUID, params.OfferUUID, params.UserID, created.DiscountAmount.StringFixed(2))
	return created, nil
}
