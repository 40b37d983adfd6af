package tourauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderstay/tourauth/refresh"
)

// Refresh rotates a refresh token: the presented value is atomically
// consumed and a brand-new access/refresh pair is issued for its owner.
// A value can be spent exactly once; replaying it afterwards fails with
// [ErrRefreshNotFound], and presenting an expired record fails with
// [ErrRefreshExpired] after the record is purged.
func (e *Engine) Refresh(ctx context.Context, rawToken string) (*Session, error) {
	if e == nil || e.refreshStore == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	session, userID, err := e.refresh(ctx, rawToken)

	if err == nil {
		e.metricInc(MetricRefreshSuccess)
		e.emitAudit(ctx, auditEventRefreshSuccess, true, userID, nil, nil)
	} else {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, userID, err, nil)
	}

	return session, err
}

func (e *Engine) refresh(ctx context.Context, rawToken string) (*Session, string, error) {
	if rawToken == "" {
		return nil, "", ErrRefreshNotFound
	}

	record, err := e.refreshStore.Consume(ctx, refresh.HashValue(rawToken))
	if err != nil {
		switch {
		case errors.Is(err, refresh.ErrNotFound):
			return nil, "", ErrRefreshNotFound
		case errors.Is(err, refresh.ErrExpired):
			return nil, "", ErrRefreshExpired
		default:
			return nil, "", fmt.Errorf("%w: %v", ErrRefreshUnavailable, err)
		}
	}

	user, err := e.userProvider.FindUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Owner deleted since issuance; the record is already consumed.
			return nil, record.UserID, ErrAccountGone
		}
		return nil, record.UserID, fmt.Errorf("user lookup: %w", err)
	}

	session, err := e.issueSession(ctx, user)
	if err != nil {
		return nil, user.ID, err
	}
	return session, user.ID, nil
}

// RevokeRefreshToken deletes a single refresh record by its raw value. It is
// idempotent; revoking an unknown or already-spent value is not an error.
func (e *Engine) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	if e == nil || e.refreshStore == nil {
		return ErrEngineNotReady
	}
	if rawToken == "" {
		return nil
	}
	if err := e.refreshStore.Delete(ctx, refresh.HashValue(rawToken)); err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshUnavailable, err)
	}
	return nil
}
