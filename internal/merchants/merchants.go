package merchants

import (
	"context"
	"errors"

	"github.com/trailperks/trailperks-server/internal/models"
	"gorm.io/gorm"
)

// ErrMerchantNotFound indicates the merchant id does not resolve.
var ErrMerchantNotFound = errors.New("merchant not found")

// Store resolves merchants and maintains their aggregate counters.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a merchant store.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Get loads a merchant by id.
func (s *Store) Get(ctx context.Context, merchantID uint64) (*models.Merchant, error) {
	var merchant models.Merchant
	if errFind := s.db.WithContext(ctx).First(&merchant, merchantID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, errFind
	}
	return &merchant, nil
}

// AdjustOfferCounters applies deltas to a merchant's offer counters using
// atomic column expressions. A nil tx falls back to the store connection.
func (s *Store) AdjustOfferCounters(ctx context.Context, tx *gorm.DB, merchantID uint64, activeDelta, totalDelta int) error {
	if activeDelta == 0 && totalDelta == 0 {
		return nil
	}
	conn := tx
	if conn == nil {
		conn = s.db
	}
	updates := map[string]any{}
	if activeDelta != 0 {
		updates["active_offers"] = gorm.Expr("active_offers + ?", activeDelta)
	}
	if totalDelta != 0 {
		updates["total_offers"] = gorm.Expr("total_offers + ?", totalDelta)
	}
	res := conn.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", merchantID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}

// IncrementRedemptions bumps a merchant's redemption counter by one.
func (s *Store) IncrementRedemptions(ctx context.Context, tx *gorm.DB, merchantID uint64) error {
	conn := tx
	if conn == nil {
		conn = s.db
	}
	res := conn.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", merchantID).
		Update("total_redemptions", gorm.Expr("total_redemptions + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}
