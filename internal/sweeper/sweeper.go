package sweeper

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trailperks/trailperks-server/internal/merchants"
	"github.com/trailperks/trailperks-server/internal/models"
	internalsettings "github.com/trailperks/trailperks-server/internal/settings"
	"gorm.io/gorm"
)

const (
	defaultSweepInterval = time.Duration(internalsettings.DefaultSweepIntervalMinutes) * time.Minute
	offerSweepBatchSize  = 500
)

// Sweeper periodically expires offers past their validity window and
// redemptions left pending past the staleness window.
type Sweeper struct {
	db        *gorm.DB
	merchants *merchants.Store
	interval  time.Duration
	now       func() time.Time
}

// New constructs an expiry sweeper.
func New(db *gorm.DB, merchantStore *merchants.Store) *Sweeper {
	if db == nil || merchantStore == nil {
		return nil
	}
	return &Sweeper{
		db:        db,
		merchants: merchantStore,
		interval:  defaultSweepInterval,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the sweep loop in a background goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("expiry sweeper started (interval=%s)", s.interval)
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.SweepOnce(ctx)
		interval := s.interval
		if minutes := internalsettings.IntValue(internalsettings.SweepIntervalMinutesKey, 0); minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

// SweepOnce runs one offer sweep and one redemption sweep. Both passes are
// idempotent and safe to run concurrently with redemption and verification:
// rows already transitioned by another path are skipped via guarded updates.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	if s == nil || s.db == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	expiredOffers := s.sweepOffers(ctx)
	expiredRedemptions := s.sweepRedemptions(ctx)
	if expiredOffers > 0 || expiredRedemptions > 0 {
		log.Infof("expiry sweep: %d offers and %d redemptions expired", expiredOffers, expiredRedemptions)
	}
}

// sweepOffers expires active offers whose validity window has passed and
// decrements the owning merchants' active-offer counters. A failing row is
// logged and skipped so it never blocks the rest of the batch.
func (s *Sweeper) sweepOffers(ctx context.Context) int {
	now := s.now()

	var candidates []models.Offer
	if errFind := s.db.WithContext(ctx).
		Select("id", "uuid", "merchant_id").
		Where("status = ? AND valid_until < ?", models.OfferStatusActive, now).
		Limit(offerSweepBatchSize).
		Find(&candidates).Error; errFind != nil {
		log.WithError(errFind).Warn("expiry sweep: list expired offers failed")
		return 0
	}

	expired := 0
	for _, offer := range candidates {
		errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Offer{}).
				Where("id = ? AND status = ?", offer.ID, models.OfferStatusActive).
				Update("status", models.OfferStatusExpired)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Already transitioned by another path.
				return nil
			}
			expired++
			return s.merchants.AdjustOfferCounters(ctx, tx, offer.MerchantID, -1, 0)
		})
		if errTx != nil {
			log.WithError(errTx).Warnf("expiry sweep: expire offer %s failed", offer.UUID)
		}
	}
	return expired
}

// sweepRedemptions expires redemptions left pending past the staleness
// window with one guarded bulk update.
func (s *Sweeper) sweepRedemptions(ctx context.Context) int64 {
	ttlDays := internalsettings.IntValue(internalsettings.PendingRedemptionTTLDaysKey,
		internalsettings.DefaultPendingRedemptionTTLDays)
	if ttlDays <= 0 {
		ttlDays = internalsettings.DefaultPendingRedemptionTTLDays
	}
	cutoff := s.now().AddDate(0, 0, -ttlDays)

	res := s.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("status = ? AND created_at < ?", models.RedemptionStatusPending, cutoff).
		Update("status", models.RedemptionStatusExpired)
	if res.Error != nil {
		log.WithError(res.Error).Warn("expiry sweep: expire stale redemptions failed")
		return 0
	}
	return res.RowsAffected
}
