package offers

import (
	"context"
	"time"

	"github.com/trailperks/trailperks-server/internal/models"
	"gorm.io/gorm"
)

// Rejection reasons surfaced verbatim to callers. Total-cap exhaustion is
// reported with the same message as a validity-window miss.
const (
	reasonOfferNotValid    = "offer is not valid or has expired"
	reasonUserLimitReached = "user has reached the redemption limit for this offer"
	reasonAlreadyProcessed = "redemption has already been processed"
)

// CheckEligible validates an offer and user pair against the current
// snapshot. It is read-only; admission itself is re-checked under a row lock
// inside Redeem. Checks run in a fixed order so the first failure wins.
func (s *Service) CheckEligible(ctx context.Context, offer *models.Offer, userID uint64, now time.Time) error {
	return s.checkEligible(ctx, s.db, offer, userID, now)
}

func (s *Service) checkEligible(ctx context.Context, conn *gorm.DB, offer *models.Offer, userID uint64, now time.Time) error {
	if offer == nil {
		return ErrOfferNotFound
	}
	if offer.Status != models.OfferStatusActive {
		return invalidState(reasonOfferNotValid)
	}
	if now.Before(offer.ValidFrom) || now.After(offer.ValidUntil) {
		return invalidState(reasonOfferNotValid)
	}
	if offer.UsageLimit != nil && offer.TotalRedemptions >= *offer.UsageLimit {
		return invalidState(reasonOfferNotValid)
	}
	if offer.UsageLimitPerUser != nil {
		count, errCount := countUserRedemptions(ctx, conn, offer.ID, userID)
		if errCount != nil {
			return errCount
		}
		if count >= int64(*offer.UsageLimitPerUser) {
			return invalidState(reasonUserLimitReached)
		}
	}
	return nil
}

// countUserRedemptions counts a user's redemptions for an offer, regardless
// of status.
func countUserRedemptions(ctx context.Context, conn *gorm.DB, offerID, userID uint64) (int64, error) {
	var count int64
	errCount := conn.WithContext(ctx).Model(&models.Redemption{}).
		Where("offer_id = ? AND user_id = ?", offerID, userID).
		Count(&count).Error
	if errCount != nil {
		return 0, errCount
	}
	return count, nil
}
