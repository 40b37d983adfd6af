package tourauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderstay/tourauth/password"
)

// UpdatePassword changes the password of an already-authenticated user after
// re-verifying the current one. PasswordChangedAt is advanced so access
// tokens issued before the change are soft-revoked, and a fresh session is
// issued so the caller stays logged in.
func (e *Engine) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword, confirm string) (*Session, error) {
	if e == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	session, err := e.updatePassword(ctx, userID, currentPassword, newPassword, confirm)

	success := err == nil
	if success {
		e.metricInc(MetricPasswordChangeSuccess)
	} else {
		e.metricInc(MetricPasswordChangeFailure)
	}
	e.emitAudit(ctx, auditEventPasswordChange, success, userID, err, nil)

	return session, err
}

func (e *Engine) updatePassword(ctx context.Context, userID, currentPassword, newPassword, confirm string) (*Session, error) {
	if userID == "" || currentPassword == "" || newPassword == "" || confirm == "" {
		return nil, ErrMissingFields
	}
	if newPassword != confirm {
		return nil, ErrPasswordConfirmMismatch
	}

	user, err := e.userProvider.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAccountGone
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	ok, err := e.passwordHash.Verify(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooShort) {
			return nil, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.PasswordChangedAt = changedAtNow()
	if err := e.userProvider.SaveUser(ctx, user, true); err != nil {
		return nil, fmt.Errorf("persist new password: %w", err)
	}

	return e.issueSession(ctx, user)
}
