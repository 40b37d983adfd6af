package tourauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUpdatePasswordSuccess(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	user := seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)

	before, err := engine.Login(ctx, "alice@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	session, err := engine.UpdatePassword(ctx, user.ID, "correct-horse-1", "brand-new-pass-2", "brand-new-pass-2")
	if err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "brand-new-pass-2"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := engine.Login(ctx, "alice@example.com", "correct-horse-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}

	if _, err := engine.Authenticate(ctx, before.AccessToken); !errors.Is(err, ErrPasswordChanged) {
		t.Fatalf("expected ErrPasswordChanged for pre-change token, got %v", err)
	}
	if _, err := engine.Authenticate(ctx, session.AccessToken); err != nil {
		t.Fatalf("post-change token rejected: %v", err)
	}
}

func TestUpdatePasswordWrongCurrentPassword(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	user := seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)
	oldHash := up.get(t, user.ID).PasswordHash

	engine := newTestEngine(t, rdb, up, nil)

	_, err := engine.UpdatePassword(ctx, user.ID, "wrong-current-1", "brand-new-pass-2", "brand-new-pass-2")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if up.get(t, user.ID).PasswordHash != oldHash {
		t.Fatal("expected stored hash to remain unchanged")
	}
}

func TestUpdatePasswordValidation(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	user := seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)

	if _, err := engine.UpdatePassword(ctx, user.ID, "correct-horse-1", "brand-new-pass-2", "other-confirm-3"); !errors.Is(err, ErrPasswordConfirmMismatch) {
		t.Fatalf("expected ErrPasswordConfirmMismatch, got %v", err)
	}
	if _, err := engine.UpdatePassword(ctx, user.ID, "correct-horse-1", "short", "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if _, err := engine.UpdatePassword(ctx, user.ID, "", "brand-new-pass-2", "brand-new-pass-2"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := engine.UpdatePassword(ctx, "ghost", "correct-horse-1", "brand-new-pass-2", "brand-new-pass-2"); !errors.Is(err, ErrAccountGone) {
		t.Fatalf("expected ErrAccountGone, got %v", err)
	}
}
