package tourauth

import (
	"context"
	"errors"
	"testing"
)

func TestAuthenticateRejectsPlaceholderTokens(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine := newTestEngine(t, rdb, newStubProvider(), nil)

	for _, token := range []string{"", "null", "loggedout"} {
		if _, err := engine.Authenticate(context.Background(), token); !errors.Is(err, ErrTokenMissing) {
			t.Fatalf("token %q: expected ErrTokenMissing, got %v", token, err)
		}
	}
}

func TestAuthenticateRejectsMalformedAndForeignTokens(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	hasher := newTestHasher(t)
	up := newStubProvider()
	seedUser(t, up, hasher, "alice@example.com", "correct-horse-1", RoleUser)

	engine := newTestEngine(t, rdb, up, nil)
	foreign := newTestEngine(t, rdb, up, nil, func(cfg *Config) {
		cfg.JWT.PrivateKey = []byte("another-32-byte-secret-key-value")
	})

	if _, err := engine.Authenticate(ctx, "not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage token: expected ErrTokenInvalid, got %v", err)
	}

	session, err := foreign.Login(ctx, "alice@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login on foreign engine failed: %v", err)
	}
	if _, err := engine.Authenticate(ctx, session.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("token from other key: expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
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

	if _, err := engine.Authenticate(ctx, session.AccessToken); !errors.Is(err, ErrAccountGone) {
		t.Fatalf("expected ErrAccountGone, got %v", err)
	}
}

func TestAuthenticateReturnsSanitizedUser(t *testing.T) {
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

	user, err := engine.Authenticate(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected password hash to be stripped")
	}
	if user.ConfirmTokenHash != ([32]byte{}) || user.ResetTokenHash != ([32]byte{}) {
		t.Fatal("expected challenge digests to be stripped")
	}
}

func TestAuthorize(t *testing.T) {
	engine := &Engine{}

	admin := &UserRecord{ID: "u1", Role: RoleAdmin}
	member := &UserRecord{ID: "u2", Role: RoleUser}
	adminsOnly := NewRoleSet(RoleAdmin)

	if err := engine.Authorize(admin, adminsOnly); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if err := engine.Authorize(member, adminsOnly); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := engine.Authorize(nil, adminsOnly); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("nil user: expected ErrPermissionDenied, got %v", err)
	}

	staff := NewRoleSet(RoleGuide, RoleLeadGuide, RoleAdmin)
	if err := engine.Authorize(&UserRecord{Role: RoleLeadGuide}, staff); err != nil {
		t.Fatalf("lead guide should pass staff set: %v", err)
	}
	if err := engine.Authorize(member, staff); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("member in staff set: expected ErrPermissionDenied, got %v", err)
	}
}

func TestPhoneVerificationPassThrough(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	verifier := &stubVerifier{}

	engine := newTestEngine(t, rdb, newStubProvider(), nil)
	engine.smsVerifier = verifier

	if err := engine.StartPhoneVerification(ctx, "+15550001111", ""); err != nil {
		t.Fatalf("StartPhoneVerification failed: %v", err)
	}
	if verifier.startCalls[0] != "+15550001111/sms" {
		t.Fatalf("expected default sms channel, got %q", verifier.startCalls[0])
	}

	if err := engine.CheckPhoneVerification(ctx, "+15550001111", "123456"); err != nil {
		t.Fatalf("CheckPhoneVerification failed: %v", err)
	}

	verifier.checkErr = errors.New("code rejected")
	if err := engine.CheckPhoneVerification(ctx, "+15550001111", "000000"); !errors.Is(err, ErrSMSVerification) {
		t.Fatalf("expected ErrSMSVerification, got %v", err)
	}

	if err := engine.StartPhoneVerification(ctx, "", "sms"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	bare := newTestEngine(t, rdb, newStubProvider(), nil)
	if err := bare.StartPhoneVerification(ctx, "+15550001111", "sms"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("no verifier: expected ErrEngineNotReady, got %v", err)
	}
}
