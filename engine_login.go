package tourauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderstay/tourauth/internal/rate"
)

// Login verifies the email/password pair and issues a session. Absent
// accounts and wrong passwords both surface as [ErrInvalidCredentials] so
// callers cannot probe which emails are registered. Unconfirmed accounts are
// rejected with [ErrEmailUnconfirmed] regardless of password correctness.
func (e *Engine) Login(ctx context.Context, email, pass string) (*Session, error) {
	if e == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	session, userID, err := e.login(ctx, email, pass)

	switch {
	case err == nil:
		e.metricInc(MetricLoginSuccess)
		e.emitAudit(ctx, auditEventLoginSuccess, true, userID, nil, nil)
	case errors.Is(err, ErrLoginRateLimited):
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, userID, err, func() map[string]string {
			return map[string]string{"email": email}
		})
	default:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, userID, err, func() map[string]string {
			return map[string]string{"email": email}
		})
	}

	return session, err
}

func (e *Engine) login(ctx context.Context, email, pass string) (*Session, string, error) {
	if email == "" || pass == "" {
		return nil, "", ErrMissingFields
	}

	ip := clientIPFromContext(ctx)

	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				return nil, "", ErrLoginRateLimited
			}
			// A throttle backend outage must not lock everyone out.
		}
	}

	user, err := e.userProvider.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.recordLoginFailure(ctx, email, ip)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("user lookup: %w", err)
	}

	ok, err := e.passwordHash.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		e.recordLoginFailure(ctx, email, ip)
		return nil, user.ID, ErrInvalidCredentials
	}

	if !user.EmailConfirmed {
		return nil, user.ID, ErrEmailUnconfirmed
	}

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(ctx, user, pass)
	}

	if e.rateLimiter != nil {
		_ = e.rateLimiter.ResetLogin(ctx, email, ip)
	}

	session, err := e.issueSession(ctx, user)
	if err != nil {
		return nil, user.ID, err
	}
	return session, user.ID, nil
}

func (e *Engine) recordLoginFailure(ctx context.Context, email, ip string) {
	if e.rateLimiter == nil {
		return
	}
	_ = e.rateLimiter.IncrementLogin(ctx, email, ip)
}

// maybeUpgradeHash transparently re-hashes the password under the current
// argon2 parameters when the stored hash was produced with weaker ones.
// PasswordChangedAt is left alone: the credential itself did not change, so
// outstanding access tokens stay valid. Best effort; failures are ignored.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user *UserRecord, pass string) {
	needs, err := e.passwordHash.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	rehashed, err := e.passwordHash.Hash(pass)
	if err != nil {
		return
	}

	user.PasswordHash = rehashed
	_ = e.userProvider.SaveUser(ctx, user, false)
}
