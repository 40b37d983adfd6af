package tourauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wanderstay/tourauth/onetime"
	"github.com/wanderstay/tourauth/password"
)

// ForgotPassword generates a password-reset token for the account, persists
// its digest, and mails the reset link. When the mail cannot be delivered
// the stored digest is rolled back before [ErrEmailDelivery] is returned, so
// a token whose link never reached the user is never left redeemable.
//
// Unknown emails fail with [ErrUserNotFound].
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if e == nil || e.userProvider == nil {
		return ErrEngineNotReady
	}

	userID, err := e.forgotPassword(ctx, email)

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, err == nil, userID, err, func() map[string]string {
		return map[string]string{"email": email}
	})

	return err
}

func (e *Engine) forgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrMissingFields
	}

	user, err := e.userProvider.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("user lookup: %w", err)
	}

	reset, err := onetime.Generate(e.config.OneTime.ResetTTL)
	if err != nil {
		return user.ID, fmt.Errorf("generate reset token: %w", err)
	}

	user.ResetTokenHash = reset.Hash
	user.ResetTokenExpiresAt = reset.ExpiresAt
	if err := e.userProvider.SaveUser(ctx, user, false); err != nil {
		return user.ID, fmt.Errorf("persist reset challenge: %w", err)
	}

	link := e.config.Account.PasswordResetURL + "/" + reset.Raw
	if err := e.mailer.SendPasswordReset(ctx, user.Sanitized(), link); err != nil {
		// Undo the challenge: a token nobody received must not stay live.
		user.ResetTokenHash = [32]byte{}
		user.ResetTokenExpiresAt = time.Time{}
		_ = e.userProvider.SaveUser(ctx, user, false)

		e.metricInc(MetricEmailDeliveryFailure)
		return user.ID, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return user.ID, nil
}

// ResetPassword redeems a reset token and installs the new password. The
// token is single-use, PasswordChangedAt is advanced so older access tokens
// are soft-revoked, and a fresh session is issued for the caller.
func (e *Engine) ResetPassword(ctx context.Context, rawToken, newPassword, confirm string) (*Session, error) {
	if e == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	session, userID, err := e.resetPassword(ctx, rawToken, newPassword, confirm)

	success := err == nil
	if success {
		e.metricInc(MetricPasswordResetSuccess)
	} else {
		e.metricInc(MetricPasswordResetFailure)
	}
	e.emitAudit(ctx, auditEventPasswordResetConfirm, success, userID, err, nil)

	return session, err
}

func (e *Engine) resetPassword(ctx context.Context, rawToken, newPassword, confirm string) (*Session, string, error) {
	if rawToken == "" || newPassword == "" || confirm == "" {
		return nil, "", ErrMissingFields
	}
	if newPassword != confirm {
		return nil, "", ErrPasswordConfirmMismatch
	}

	user, err := e.userProvider.FindUserByResetTokenHash(ctx, onetime.Hash(rawToken))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrOneTimeTokenInvalid
		}
		return nil, "", fmt.Errorf("reset token lookup: %w", err)
	}

	if err := onetime.Verify(rawToken, user.ResetTokenHash, user.ResetTokenExpiresAt); err != nil {
		return nil, user.ID, ErrOneTimeTokenInvalid
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooShort) {
			return nil, user.ID, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
		}
		return nil, user.ID, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.ResetTokenHash = [32]byte{}
	user.ResetTokenExpiresAt = time.Time{}
	user.PasswordChangedAt = changedAtNow()
	if err := e.userProvider.SaveUser(ctx, user, true); err != nil {
		return nil, user.ID, fmt.Errorf("persist new password: %w", err)
	}

	session, err := e.issueSession(ctx, user)
	if err != nil {
		return nil, user.ID, err
	}
	return session, user.ID, nil
}

// changedAtNow backdates the password-changed stamp by one second so the
// access token issued in the same flow, whose iat claim is truncated to
// whole seconds, is not revoked by its own password change.
func changedAtNow() time.Time {
	return time.Now().Add(-time.Second)
}
