package tourauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSignup               = "signup"
	auditEventEmailConfirm         = "email_confirm"
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventLoginRateLimited     = "login_rate_limited"
	auditEventRefreshSuccess       = "refresh_success"
	auditEventRefreshInvalid       = "refresh_invalid"
	auditEventPasswordResetRequest = "password_reset_request"
	auditEventPasswordResetConfirm = "password_reset_confirm"
	auditEventPasswordChange       = "password_change"
	auditEventPhoneVerifyStart     = "phone_verification_start"
	auditEventPhoneVerifyCheck     = "phone_verification_check"
)

// AuditErrorCode defines a public type used by tourauth APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrMissingFields       AuditErrorCode = "missing_fields"
	auditErrInvalidCredentials  AuditErrorCode = "invalid_credentials"
	auditErrEmailUnconfirmed    AuditErrorCode = "email_unconfirmed"
	auditErrRateLimited         AuditErrorCode = "rate_limited"
	auditErrInvalidToken        AuditErrorCode = "invalid_token"
	auditErrPasswordChanged     AuditErrorCode = "password_changed"
	auditErrUserNotFound        AuditErrorCode = "user_not_found"
	auditErrDuplicate           AuditErrorCode = "duplicate"
	auditErrRefreshNotFound     AuditErrorCode = "refresh_not_found"
	auditErrRefreshExpired      AuditErrorCode = "refresh_expired"
	auditErrOneTimeTokenInvalid AuditErrorCode = "one_time_token_invalid"
	auditErrPasswordPolicy      AuditErrorCode = "password_policy"
	auditErrPermissionDenied    AuditErrorCode = "permission_denied"
	auditErrEmailDelivery       AuditErrorCode = "email_delivery"
	auditErrSMSVerification     AuditErrorCode = "sms_verification"
	auditErrUnavailable         AuditErrorCode = "backend_unavailable"
	auditErrInternal            AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrPasswordConfirmMismatch):
		return auditErrMissingFields
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrEmailUnconfirmed):
		return auditErrEmailUnconfirmed
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenMissing):
		return auditErrInvalidToken
	case errors.Is(err, ErrPasswordChanged):
		return auditErrPasswordChanged
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrAccountGone):
		return auditErrUserNotFound
	case errors.Is(err, ErrAccountExists):
		return auditErrDuplicate
	case errors.Is(err, ErrRefreshNotFound):
		return auditErrRefreshNotFound
	case errors.Is(err, ErrRefreshExpired):
		return auditErrRefreshExpired
	case errors.Is(err, ErrOneTimeTokenInvalid):
		return auditErrOneTimeTokenInvalid
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrPermissionDenied):
		return auditErrPermissionDenied
	case errors.Is(err, ErrEmailDelivery):
		return auditErrEmailDelivery
	case errors.Is(err, ErrSMSVerification):
		return auditErrSMSVerification
	case errors.Is(err, ErrRefreshUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
