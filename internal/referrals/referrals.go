package referrals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/trailperks/trailperks-server/internal/codegen"
	"github.com/trailperks/trailperks-server/internal/models"
	"gorm.io/gorm"
)

// referralCodeLength is the fixed length of referral codes.
const referralCodeLength = 8

// Referral errors.
var (
	// ErrCodeNotFound indicates the referral code does not resolve.
	ErrCodeNotFound = errors.New("referral code not found")
	// ErrCodeAlreadyClaimed indicates the code was claimed by another user.
	ErrCodeAlreadyClaimed = errors.New("referral code has already been claimed")
	// ErrSelfReferral indicates a user tried to claim their own code.
	ErrSelfReferral = errors.New("referral code cannot be claimed by its owner")
)

// Service issues and claims referral codes. Reward bookkeeping happens in a
// separate billing collaborator.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService constructs a referral service.
func NewService(db *gorm.DB) *Service {
	if db == nil {
		return nil
	}
	return &Service{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// IssueCode returns the user's referral code, generating one on first use.
func (s *Service) IssueCode(ctx context.Context, userID uint64) (*models.ReferralCode, error) {
	var existing models.ReferralCode
	errFind := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if errFind == nil {
		return &existing, nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, errFind
	}

	code, errCode := codegen.Generate(codegen.DefaultAlphabet, referralCodeLength, func(candidate string) (bool, error) {
		var count int64
		errCount := s.db.WithContext(ctx).Model(&models.ReferralCode{}).
			Where("code = ?", candidate).
			Count(&count).Error
		return count > 0, errCount
	})
	if errCode != nil {
		return nil, errCode
	}

	record := &models.ReferralCode{
		Code:   code,
		UserID: userID,
	}
	if errCreate := s.db.WithContext(ctx).Create(record).Error; errCreate != nil {
		return nil, errCreate
	}
	return record, nil
}

// ClaimCode marks a referral code as claimed by a user. A code can be
// claimed exactly once and never by its owner.
func (s *Service) ClaimCode(ctx context.Context, code string, userID uint64) (*models.ReferralCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCodeNotFound
	}
	now := s.now()

	var record models.ReferralCode
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errFind := tx.Where("code = ?", code).First(&record).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return errFind
		}
		if record.UserID == userID {
			return ErrSelfReferral
		}
		if record.ClaimedByUserID != nil {
			return ErrCodeAlreadyClaimed
		}

		res := tx.Model(&models.ReferralCode{}).
			Where("id = ? AND claimed_by_user_id IS NULL", record.ID).
			Updates(map[string]any{
				"claimed_by_user_id": userID,
				"claimed_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCodeAlreadyClaimed
		}
		record.ClaimedByUserID = &userID
		record.ClaimedAt = &now
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &record, nil
}
