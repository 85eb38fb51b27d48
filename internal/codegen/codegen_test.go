package codegen

import (
	"errors"
	"strings"
	"testing"
)

func TestRandomLengthAndAlphabet(t *testing.T) {
	code, errRandom := Random(DefaultAlphabet, 8)
	if errRandom != nil {
		t.Fatalf("random: %v", errRandom)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8 chars, got %d", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(DefaultAlphabet, r) {
			t.Fatalf("character %q not in alphabet", r)
		}
	}
}

func TestRandomRejectsInvalidLength(t *testing.T) {
	if _, errRandom := Random(DefaultAlphabet, 0); errRandom == nil {
		t.Fatal("expected error for zero length")
	}
	if _, errRandom := Random(DefaultAlphabet, -3); errRandom == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestGenerateSkipsNilExists(t *testing.T) {
	code, errGenerate := Generate("AB", 4, nil)
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}
	if len(code) != 4 {
		t.Fatalf("expected 4 chars, got %d", len(code))
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	code, errGenerate := Generate(DefaultAlphabet, 8, func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if errGenerate != nil {
		t.Fatalf("generate: %v", errGenerate)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8 chars, got %d", len(code))
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	_, errGenerate := Generate(DefaultAlphabet, 8, func(string) (bool, error) {
		return true, nil
	})
	if !errors.Is(errGenerate, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", errGenerate)
	}
}

func TestGeneratePropagatesExistsError(t *testing.T) {
	boom := errors.New("boom")
	_, errGenerate := Generate(DefaultAlphabet, 8, func(string) (bool, error) {
		return false, boom
	})
	if !errors.Is(errGenerate, boom) {
		t.Fatalf("expected boom, got %v", errGenerate)
	}
}
