package onetime

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateProducesUsableToken(t *testing.T) {
	token, err := Generate(10 * time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if token.Raw == "" {
		t.Fatal("expected non-empty raw value")
	}
	if token.Hash != Hash(token.Raw) {
		t.Fatal("stored hash must be the digest of the raw value")
	}
	if !token.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry")
	}

	if err := Verify(token.Raw, token.Hash, token.ExpiresAt); err != nil {
		t.Fatalf("Verify on fresh token failed: %v", err)
	}
}

func TestGenerateIsUnique(t *testing.T) {
	a, err := Generate(time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if a.Raw == b.Raw || a.Hash == b.Hash {
		t.Fatal("expected distinct tokens")
	}
}

func TestVerifyRejectsWrongValue(t *testing.T) {
	token, err := Generate(time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	other, err := Generate(time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := Verify(other.Raw, token.Hash, token.ExpiresAt); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired, got %v", err)
	}
	if err := Verify("", token.Hash, token.ExpiresAt); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("empty raw: expected ErrInvalidOrExpired, got %v", err)
	}
}

func TestVerifyRejectsExpiredWindow(t *testing.T) {
	token, err := Generate(time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := Verify(token.Raw, token.Hash, time.Now().Add(-time.Second)); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired, got %v", err)
	}
}

func TestVerifyRejectsClearedChallenge(t *testing.T) {
	token, err := Generate(time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// After a successful use the caller clears hash and expiry; the same raw
	// value must then fail.
	if err := Verify(token.Raw, [32]byte{}, time.Time{}); !errors.Is(err, ErrInvalidOrExpired) {
		t.Fatalf("expected ErrInvalidOrExpired, got %v", err)
	}
}
