package offers

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/trailperks/trailperks-server/internal/models"
	"github.com/trailperks/trailperks-server/internal/util"
	"gorm.io/gorm"
)

// Verify matches a verification code to a pending redemption of the given
// merchant and completes it. Another merchant's code is rejected before any
// state changes. Verifying a code twice yields InvalidState on the second
// call; no transition out of COMPLETED or EXPIRED exists.
func (s *Service) Verify(ctx context.Context, code string, merchantID, verifierID uint64) (*models.Redemption, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalidArgumentf("verification code is required")
	}
	now := s.now()

	var redemption models.Redemption
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Codes are only unique among PENDING/COMPLETED rows, so match the
		// pending one before falling back to an already-processed row.
		errFind := lockForUpdate(tx).
			Where("verification_code = ? AND status = ?", code, models.RedemptionStatusPending).
			First(&redemption).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			errFind = tx.Where("verification_code = ?", code).
				Order("created_at DESC").
				First(&redemption).Error
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrRedemptionNotFound
			}
			if errFind != nil {
				return errFind
			}
			if redemption.MerchantID != merchantID {
				return ErrMerchantMismatch
			}
			return invalidState(reasonAlreadyProcessed)
		}
		if errFind != nil {
			return errFind
		}
		if redemption.MerchantID != merchantID {
			return ErrMerchantMismatch
		}

		res := tx.Model(&models.Redemption{}).
			Where("id = ? AND status = ?", redemption.ID, models.RedemptionStatusPending).
			Updates(map[string]any{
				"status":              models.RedemptionStatusCompleted,
				"verified_by_user_id": verifierID,
				"verified_at":         now,
				"redeemed_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState(reasonAlreadyProcessed)
		}

		redemption.Status = models.RedemptionStatusCompleted
		redemption.VerifiedByUserID = &verifierID
		redemption.VerifiedAt = &now
		redemption.RedeemedAt = &now
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	log.Infof("redemption %s verified (code=%s verifier=%d)", redemption.UUID, util.MaskCode(code), verifierID)
	return &redemption, nil
}

// GetRedemption loads a redemption by its external UUID.
func (s *Service) GetRedemption(ctx context.Context, redemptionUUID string) (*models.Redemption, error) {
	var redemption models.Redemption
	if errFind := s.db.WithContext(ctx).Where("uuid = ?", redemptionUUID).First(&redemption).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, errFind
	}
	return &redemption, nil
}

// ListUserRedemptions returns a user's redemptions, newest first.
func (s *Service) ListUserRedemptions(ctx context.Context, userID uint64) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).Error; errFind != nil {
		return nil, errFind
	}
	return redemptions, nil
}

// ListMerchantRedemptions returns a merchant's redemptions, newest first.
func (s *Service) ListMerchantRedemptions(ctx context.Context, merchantID uint64) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	if errFind := s.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&redemptions).Error; errFind != nil {
		return nil, errFind
	}
	return redemptions, nil
}
