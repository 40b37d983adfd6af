package tourauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wanderstay/tourauth/internal/rate"
	"github.com/wanderstay/tourauth/jwt"
	"github.com/wanderstay/tourauth/password"
	"github.com/wanderstay/tourauth/refresh"
)

// Engine defines a public type used by tourauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	refreshStore refresh.Store
	rateLimiter  *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
	userProvider UserProvider
	mailer       Mailer
	smsVerifier  SMSVerifier
}

// Config returns a copy of the engine’s configuration (with key material
// blanked) so transport adapters can read cookie and TTL settings.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	cfg := e.config
	cfg.JWT.PrivateKey = nil
	cfg.JWT.PublicKey = nil
	return cfg
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Authenticate resolves an access token to a live user. It fails when the
// token is absent or a logged-out placeholder, fails signature or expiry
// checks, references a deleted account, or predates the account’s last
// password change. The returned record is sanitized.
func (e *Engine) Authenticate(ctx context.Context, token string) (*UserRecord, error) {
	if e == nil || e.jwtManager == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}
	}()

	// "null" and "loggedout" are the placeholder values browsers end up
	// sending after a cleared cookie.
	if token == "" || token == "null" || token == "loggedout" {
		return nil, ErrTokenMissing
	}

	claims, err := e.jwtManager.ParseAccess(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}

	user, err := e.userProvider.FindUserByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAccountGone
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if passwordChangedAfter(user, claims.IssuedAt.Time) {
		return nil, ErrPasswordChanged
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Authorize fails with [ErrPermissionDenied] unless the user’s role is in
// the allow-list. Callers authenticate first; a nil user is always denied.
func (e *Engine) Authorize(user *UserRecord, allowed RoleSet) error {
	if user == nil || !allowed.Contains(user.Role) {
		return ErrPermissionDenied
	}
	return nil
}

// issueSession signs a fresh access token and persists a fresh refresh token
// for the user. Every flow that logs the caller in funnels through here.
func (e *Engine) issueSession(ctx context.Context, user *UserRecord) (*Session, error) {
	access, err := e.jwtManager.CreateAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	rawRefresh, _, err := refresh.Issue(ctx, e.refreshStore, user.ID, e.config.Refresh.TTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshUnavailable, err)
	}

	e.metricInc(MetricSessionIssued)

	return &Session{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		User:         user.Sanitized(),
	}, nil
}

// passwordChangedAfter reports whether the stored password postdates the
// token issue time. Sub-second truncation on the JWT iat claim is tolerated.
func passwordChangedAfter(user *UserRecord, issuedAt time.Time) bool {
	if user.PasswordChangedAt.IsZero() {
		return false
	}
	return user.PasswordChangedAt.After(issuedAt.Truncate(time.Second).Add(time.Second - time.Nanosecond))
}
