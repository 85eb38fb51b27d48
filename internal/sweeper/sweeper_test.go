package sweeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	internaldb "github.com/trailperks/trailperks-server/internal/db"
	"github.com/trailperks/trailperks-server/internal/merchants"
	"github.com/trailperks/trailperks-server/internal/models"
	internalsettings "github.com/trailperks/trailperks-server/internal/settings"
	"gorm.io/gorm"
)

var testClock = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sweeper_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	sqlDB, errDB := conn.DB()
	if errDB != nil {
		t.Fatalf("sql db: %v", errDB)
	}
	sqlDB.SetMaxOpenConns(1)
	if errMigrate := internaldb.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func newTestSweeper(t *testing.T, conn *gorm.DB) *Sweeper {
	t.Helper()
	s := New(conn, merchants.NewStore(conn))
	if s == nil {
		t.Fatal("nil sweeper")
	}
	s.now = func() time.Time { return testClock }
	return s
}

func seedMerchant(t *testing.T, conn *gorm.DB, activeOffers int) *models.Merchant {
	t.Helper()
	merchant := &models.Merchant{
		UUID:         uuid.NewString(),
		Name:         "Trailhead Cafe",
		ActiveOffers: activeOffers,
		TotalOffers:  activeOffers,
		IsApproved:   true,
	}
	if errCreate := conn.Create(merchant).Error; errCreate != nil {
		t.Fatalf("seed merchant: %v", errCreate)
	}
	return merchant
}

func seedOffer(t *testing.T, conn *gorm.DB, merchantID uint64, status models.OfferStatus, validUntil time.Time) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		UUID:          uuid.NewString(),
		MerchantID:    merchantID,
		Title:         "20% off trail lunch",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		ValidFrom:     validUntil.Add(-48 * time.Hour),
		ValidUntil:    validUntil,
		Status:        status,
	}
	if errCreate := conn.Create(offer).Error; errCreate != nil {
		t.Fatalf("seed offer: %v", errCreate)
	}
	return offer
}

func seedRedemption(t *testing.T, conn *gorm.DB, offer *models.Offer, status models.RedemptionStatus, createdAt time.Time) *models.Redemption {
	t.Helper()
	redemption := &models.Redemption{
		UUID:             uuid.NewString(),
		OfferID:          offer.ID,
		UserID:           1,
		MerchantID:       offer.MerchantID,
		VerificationCode: uuid.NewString()[:8],
		Status:           status,
		CreatedAt:        createdAt,
	}
	if errCreate := conn.Create(redemption).Error; errCreate != nil {
		t.Fatalf("seed redemption: %v", errCreate)
	}
	return redemption
}

func TestSweepExpiresOffersPastWindow(t *testing.T) {
	conn := openTestDB(t)
	s := newTestSweeper(t, conn)
	merchant := seedMerchant(t, conn, 2)

	stale := seedOffer(t, conn, merchant.ID, models.OfferStatusActive, testClock.Add(-time.Hour))
	open := seedOffer(t, conn, merchant.ID, models.OfferStatusActive, testClock.Add(time.Hour))
	paused := seedOffer(t, conn, merchant.ID, models.OfferStatusPaused, testClock.Add(-time.Hour))

	s.SweepOnce(context.Background())

	assertOfferStatus(t, conn, stale.ID, models.OfferStatusExpired)
	assertOfferStatus(t, conn, open.ID, models.OfferStatusActive)
	// Paused offers are left for their merchant to resolve.
	assertOfferStatus(t, conn, paused.ID, models.OfferStatusPaused)

	var reloaded models.Merchant
	if errFind := conn.First(&reloaded, merchant.ID).Error; errFind != nil {
		t.Fatalf("reload merchant: %v", errFind)
	}
	if reloaded.ActiveOffers != 1 {
		t.Fatalf("active offers: got %d want 1", reloaded.ActiveOffers)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	s := newTestSweeper(t, conn)
	merchant := seedMerchant(t, conn, 1)
	seedOffer(t, conn, merchant.ID, models.OfferStatusActive, testClock.Add(-time.Hour))

	s.SweepOnce(context.Background())
	s.SweepOnce(context.Background())

	var reloaded models.Merchant
	if errFind := conn.First(&reloaded, merchant.ID).Error; errFind != nil {
		t.Fatalf("reload merchant: %v", errFind)
	}
	if reloaded.ActiveOffers != 0 {
		t.Fatalf("active offers: got %d want 0", reloaded.ActiveOffers)
	}
}

func TestSweepExpiresStalePendingRedemptions(t *testing.T) {
	conn := openTestDB(t)
	s := newTestSweeper(t, conn)
	merchant := seedMerchant(t, conn, 1)
	offer := seedOffer(t, conn, merchant.ID, models.OfferStatusActive, testClock.Add(time.Hour))

	staleDays := internalsettings.DefaultPendingRedemptionTTLDays + 1
	stale := seedRedemption(t, conn, offer, models.RedemptionStatusPending, testClock.AddDate(0, 0, -staleDays))
	fresh := seedRedemption(t, conn, offer, models.RedemptionStatusPending, testClock.Add(-time.Hour))
	completed := seedRedemption(t, conn, offer, models.RedemptionStatusCompleted, testClock.AddDate(0, 0, -staleDays))

	s.SweepOnce(context.Background())

	assertRedemptionStatus(t, conn, stale.ID, models.RedemptionStatusExpired)
	assertRedemptionStatus(t, conn, fresh.ID, models.RedemptionStatusPending)
	// Completed rows never transition.
	assertRedemptionStatus(t, conn, completed.ID, models.RedemptionStatusCompleted)
}

func assertOfferStatus(t *testing.T, conn *gorm.DB, offerID uint64, want models.OfferStatus) {
	t.Helper()
	var offer models.Offer
	if errFind := conn.First(&offer, offerID).Error; errFind != nil {
		t.Fatalf("reload offer %d: %v", offerID, errFind)
	}
	if offer.Status != want {
		t.Fatalf("offer %d status: got %s want %s", offerID, offer.Status, want)
	}
}

func assertRedemptionStatus(t *testing.T, conn *gorm.DB, redemptionID uint64, want models.RedemptionStatus) {
	t.Helper()
	var redemption models.Redemption
	if errFind := conn.First(&redemption, redemptionID).Error; errFind != nil {
		t.Fatalf("reload redemption %d: %v", redemptionID, errFind)
	}
	if redemption.Status != want {
		t.Fatalf("redemption %d status: got %s want %s", redemptionID, redemption.Status, want)
	}
}
