package security

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestMemberTokenRoundTrip(t *testing.T) {
	token, errGenerate := GenerateMemberToken(testSecret, 42, "hiker@example.com", "Hiker", time.Hour)
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}

	claims, errParse := ParseMemberToken(testSecret, token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id: got %d want 42", claims.UserID)
	}
	if claims.Email != "hiker@example.com" {
		t.Fatalf("email: got %s", claims.Email)
	}
}

func TestMerchantTokenRoundTrip(t *testing.T) {
	token, errGenerate := GenerateMerchantToken(testSecret, 7, 3, time.Hour)
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}

	claims, errParse := ParseMerchantToken(testSecret, token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.UserID != 7 || claims.MerchantID != 3 {
		t.Fatalf("claims: got user=%d merchant=%d", claims.UserID, claims.MerchantID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, errGenerate := GenerateMemberToken(testSecret, 42, "hiker@example.com", "Hiker", time.Hour)
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}

	if _, errParse := ParseMemberToken("other-secret", token); !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", errParse)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, errGenerate := GenerateMemberToken(testSecret, 42, "hiker@example.com", "Hiker", -time.Minute)
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}

	if _, errParse := ParseMemberToken(testSecret, token); !errors.Is(errParse, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", errParse)
	}
}

func TestParseRejectsCrossSurfaceToken(t *testing.T) {
	token, errGenerate := GenerateMemberToken(testSecret, 42, "hiker@example.com", "Hiker", time.Hour)
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}

	// Member tokens carry no merchant id, so the merchant surface must not
	// accept them as a merchant binding.
	claims, errParse := ParseMerchantToken(testSecret, token)
	if errParse == nil && claims.MerchantID != 0 {
		t.Fatalf("expected zero merchant id, got %d", claims.MerchantID)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, errHash := HashPassword("tr@il-s3cret")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	if hash == "tr@il-s3cret" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "tr@il-s3cret") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatched password to fail")
	}
}
