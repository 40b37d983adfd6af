package tourauth

import (
	"context"
	"errors"
	"testing"
)

func TestRefreshRotatesToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	user := seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)

	session, err := engine.Login(ctx, "alice@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	rotated, err := engine.Refresh(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Fatal("expected rotation to mint a new refresh token")
	}
	if rotated.User.ID != user.ID {
		t.Fatalf("expected session for %s, got %s", user.ID, rotated.User.ID)
	}

	if _, err := engine.Authenticate(ctx, rotated.AccessToken); err != nil {
		t.Fatalf("Authenticate on rotated access token failed: %v", err)
	}
}

func TestRefreshIsSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)

	session, err := engine.Login(ctx, "alice@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.Refresh(ctx, session.RefreshToken); err != nil {
		t.Fatalf("first Refresh failed: %v", err)
	}
	if _, err := engine.Refresh(ctx, session.RefreshToken); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("replayed refresh token: expected ErrRefreshNotFound, got %v", err)
	}
}

func TestRefreshRejectsUnknownAndEmptyTokens(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	engine := newTestEngine(t, rdb, newStubProvider(), nil)

	if _, err := engine.Refresh(ctx, "never-issued"); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("unknown token: expected ErrRefreshNotFound, got %v", err)
	}
	if _, err := engine.Refresh(ctx, ""); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("empty token: expected ErrRefreshNotFound, got %v", err)
	}
}

func TestRefreshFailsWhenOwnerDeleted(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	user := seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)

	session, err := engine.Login(ctx, "alice@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	up.delete(user.ID)

	if _, err := engine.Refresh(ctx, session.RefreshToken); !errors.Is(err, ErrAccountGone) {
		t.Fatalf("expected ErrAccountGone, got %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)

	session, err := engine.Login(ctx, "alice@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.RevokeRefreshToken(ctx, session.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}
	if _, err := engine.Refresh(ctx, session.RefreshToken); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("revoked token: expected ErrRefreshNotFound, got %v", err)
	}

	// Revocation is idempotent.
	if err := engine.RevokeRefreshToken(ctx, session.RefreshToken); err != nil {
		t.Fatalf("second revoke failed: %v", err)
	}
	if err := engine.RevokeRefreshToken(ctx, ""); err != nil {
		t.Fatalf("empty revoke failed: %v", err)
	}
}
