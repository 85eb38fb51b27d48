package offers

import (
	"context"
	"testing"
	"time"

	"github.com/trailperks/trailperks-server/internal/models"
)

func TestCheckEligibleOrdering(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	merchant := seedMerchant(t, conn)
	ctx := context.Background()

	t.Run("nil offer", func(t *testing.T) {
		if errCheck := svc.CheckEligible(ctx, nil, 1, testClock); errCheck != ErrOfferNotFound {
			t.Fatalf("expected ErrOfferNotFound, got %v", errCheck)
		}
	})

	t.Run("inactive status wins over window", func(t *testing.T) {
		// Draft and outside the window; the status check fires first but the
		// caller sees the same message either way.
		offer := seedOffer(t, conn, merchant.ID, func(o *models.Offer) {
			o.Status = models.OfferStatusDraft
			o.ValidUntil = testClock.Add(-time.Hour)
		})
		errCheck := svc.CheckEligible(ctx, offer, 1, testClock)
		if !IsInvalidState(errCheck) || errCheck.Error() != reasonOfferNotValid {
			t.Fatalf("got %v", errCheck)
		}
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		offer := seedOffer(t, conn, merchant.ID, func(o *models.Offer) {
			o.ValidFrom = testClock
			o.ValidUntil = testClock
		})
		if errCheck := svc.CheckEligible(ctx, offer, 1, testClock); errCheck != nil {
			t.Fatalf("expected eligible at boundary, got %v", errCheck)
		}
	})

	t.Run("total cap reported as offer not valid", func(t *testing.T) {
		offer := seedOffer(t, conn, merchant.ID, func(o *models.Offer) {
			o.UsageLimit = intPtr(1)
			o.TotalRedemptions = 1
		})
		errCheck := svc.CheckEligible(ctx, offer, 1, testClock)
		if !IsInvalidState(errCheck) || errCheck.Error() != reasonOfferNotValid {
			t.Fatalf("got %v", errCheck)
		}
	})

	t.Run("per-user cap reported separately", func(t *testing.T) {
		offer := seedOffer(t, conn, merchant.ID, func(o *models.Offer) {
			o.UsageLimitPerUser = intPtr(1)
		})
		redemption := &models.Redemption{
			UUID:             "r-elig-1",
			OfferID:          offer.ID,
			UserID:           7,
			MerchantID:       merchant.ID,
			VerificationCode: "ELIG0001",
			Status:           models.RedemptionStatusExpired,
		}
		if errCreate := conn.Create(redemption).Error; errCreate != nil {
			t.Fatalf("seed redemption: %v", errCreate)
		}

		// Expired attempts still count toward the per-user limit.
		errCheck := svc.CheckEligible(ctx, offer, 7, testClock)
		if !IsInvalidState(errCheck) || errCheck.Error() != reasonUserLimitReached {
			t.Fatalf("got %v", errCheck)
		}
		if errOther := svc.CheckEligible(ctx, offer, 8, testClock); errOther != nil {
			t.Fatalf("other user should be eligible, got %v", errOther)
		}
	})
}
