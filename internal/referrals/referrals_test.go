package referrals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/trailperks/trailperks-server/internal/codegen"
	internaldb "github.com/trailperks/trailperks-server/internal/db"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:referrals_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestIssueCodeIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	ctx := context.Background()

	first, errFirst := svc.IssueCode(ctx, 1)
	if errFirst != nil {
		t.Fatalf("issue: %v", errFirst)
	}
	if len(first.Code) != referralCodeLength {
		t.Fatalf("code length: got %d want %d", len(first.Code), referralCodeLength)
	}
	for _, r := range first.Code {
		if !strings.ContainsRune(codegen.DefaultAlphabet, r) {
			t.Fatalf("code character %q outside alphabet", r)
		}
	}

	second, errSecond := svc.IssueCode(ctx, 1)
	if errSecond != nil {
		t.Fatalf("reissue: %v", errSecond)
	}
	if second.Code != first.Code {
		t.Fatalf("expected stable code, got %s then %s", first.Code, second.Code)
	}

	other, errOther := svc.IssueCode(ctx, 2)
	if errOther != nil {
		t.Fatalf("issue for other user: %v", errOther)
	}
	if other.Code == first.Code {
		t.Fatal("expected distinct codes per user")
	}
}

func TestClaimCode(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	ctx := context.Background()

	issued, errIssue := svc.IssueCode(ctx, 1)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}

	if _, errSelf := svc.ClaimCode(ctx, issued.Code, 1); !errors.Is(errSelf, ErrSelfReferral) {
		t.Fatalf("expected ErrSelfReferral, got %v", errSelf)
	}

	claimed, errClaim := svc.ClaimCode(ctx, strings.ToLower(issued.Code), 2)
	if errClaim != nil {
		t.Fatalf("claim: %v", errClaim)
	}
	if claimed.ClaimedByUserID == nil || *claimed.ClaimedByUserID != 2 {
		t.Fatalf("claimed by: got %v want 2", claimed.ClaimedByUserID)
	}
	if claimed.ClaimedAt == nil {
		t.Fatal("expected a claim timestamp")
	}

	if _, errAgain := svc.ClaimCode(ctx, issued.Code, 3); !errors.Is(errAgain, ErrCodeAlreadyClaimed) {
		t.Fatalf("expected ErrCodeAlreadyClaimed, got %v", errAgain)
	}
}

func TestClaimUnknownCode(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	ctx := context.Background()

	if _, errClaim := svc.ClaimCode(ctx, "NOPE1234", 2); !errors.Is(errClaim, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", errClaim)
	}
	if _, errClaim := svc.ClaimCode(ctx, "  ", 2); !errors.Is(errClaim, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound for blank code, got %v", errClaim)
	}
}
