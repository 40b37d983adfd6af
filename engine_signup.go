package tourauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wanderstay/tourauth/onetime"
	"github.com/wanderstay/tourauth/password"
)

// Signup creates an unconfirmed account and dispatches the confirmation
// email. No session is issued: the caller must follow the emailed link and
// go through [Engine.ConfirmEmail] before [Engine.Login] will accept them.
//
// The account survives a mailer failure; only [ErrEmailDelivery] is reported
// so operators can spot delivery problems without orphaning the record.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*UserRecord, error) {
	if e == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.signup(ctx, req)

	success := err == nil
	if success {
		e.metricInc(MetricSignupSuccess)
	} else {
		e.metricInc(MetricSignupFailure)
	}

	var userID string
	if user != nil {
		userID = user.ID
	}
	e.emitAudit(ctx, auditEventSignup, success, userID, err, func() map[string]string {
		return map[string]string{"email": req.Email}
	})

	return user, err
}

func (e *Engine) signup(ctx context.Context, req SignupRequest) (*UserRecord, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.PasswordConfirm == "" {
		return nil, ErrMissingFields
	}
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordConfirmMismatch
	}

	role := req.Role
	if role == RoleUser {
		role = e.config.Account.DefaultRole
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooShort) {
			return nil, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := e.userProvider.CreateUser(ctx, CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	confirm, err := onetime.Generate(e.config.OneTime.ConfirmTTL)
	if err != nil {
		return nil, fmt.Errorf("generate confirm token: %w", err)
	}

	user.ConfirmTokenHash = confirm.Hash
	user.ConfirmTokenExpiresAt = confirm.ExpiresAt
	if err := e.userProvider.SaveUser(ctx, user, false); err != nil {
		return nil, fmt.Errorf("persist confirm challenge: %w", err)
	}

	link := e.config.Account.EmailConfirmURL + "/" + confirm.Raw
	if err := e.mailer.SendWelcome(ctx, user.Sanitized(), link); err != nil {
		e.metricInc(MetricEmailDeliveryFailure)
		return user, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// ConfirmEmail redeems the confirmation token from the signup email. The
// token is single-use: the stored digest is cleared on success, so replaying
// the same link fails with [ErrOneTimeTokenInvalid]. On success the account
// is marked confirmed and a session is issued.
func (e *Engine) ConfirmEmail(ctx context.Context, rawToken string) (*Session, error) {
	if e == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	session, userID, err := e.confirmEmail(ctx, rawToken)

	success := err == nil
	if success {
		e.metricInc(MetricEmailConfirmSuccess)
	} else {
		e.metricInc(MetricEmailConfirmFailure)
	}
	e.emitAudit(ctx, auditEventEmailConfirm, success, userID, err, nil)

	return session, err
}

func (e *Engine) confirmEmail(ctx context.Context, rawToken string) (*Session, string, error) {
	if rawToken == "" {
		return nil, "", ErrOneTimeTokenInvalid
	}

	user, err := e.userProvider.FindUserByConfirmTokenHash(ctx, onetime.Hash(rawToken))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrOneTimeTokenInvalid
		}
		return nil, "", fmt.Errorf("confirm token lookup: %w", err)
	}

	if err := onetime.Verify(rawToken, user.ConfirmTokenHash, user.ConfirmTokenExpiresAt); err != nil {
		return nil, user.ID, ErrOneTimeTokenInvalid
	}

	user.EmailConfirmed = true
	user.ConfirmTokenHash = [32]byte{}
	user.ConfirmTokenExpiresAt = time.Time{}
	// An outstanding reset challenge from before confirmation is stale now.
	user.ResetTokenHash = [32]byte{}
	user.ResetTokenExpiresAt = time.Time{}
	if err := e.userProvider.SaveUser(ctx, user, false); err != nil {
		return nil, user.ID, fmt.Errorf("persist confirmation: %w", err)
	}

	session, err := e.issueSession(ctx, user)
	if err != nil {
		return nil, user.ID, err
	}
	return session, user.ID, nil
}
