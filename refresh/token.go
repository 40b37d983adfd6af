package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wanderstay/tourauth/internal"
)

var (
	// ErrNotFound is an exported constant or variable used by the authentication engine.
	ErrNotFound = errors.New("refresh token not found")
	// ErrExpired is an exported constant or variable used by the authentication engine.
	ErrExpired = errors.New("refresh token expired")
	// ErrUnavailable is an exported constant or variable used by the authentication engine.
	ErrUnavailable = errors.New("refresh token backend unavailable")
)

// Token is a persisted refresh-token record. ValueHash is the SHA-256 digest
// of the raw opaque value; the raw value itself exists only client-side.
type Token struct {
	ID        string
	UserID    string
	ValueHash [32]byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record’s lifetime has elapsed.
func (t *Token) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Store is the persistence contract for refresh records. Multiple live
// records per user are expected (multi-device).
type Store interface {
	// Save persists a new record.
	Save(ctx context.Context, token *Token) error
	// Get returns the record for a value digest, or ErrNotFound.
	Get(ctx context.Context, valueHash [32]byte) (*Token, error)
	// Delete removes a record by value digest. Deleting an absent record
	// is not an error.
	Delete(ctx context.Context, valueHash [32]byte) error
	// Consume atomically applies the rotation contract: absent records
	// fail ErrNotFound; expired records are deleted and fail ErrExpired;
	// valid records are deleted and returned. Racing consumers of the
	// same digest see exactly one success.
	Consume(ctx context.Context, valueHash [32]byte) (*Token, error)
}

// HashValue is the digest a store keys records by.
func HashValue(raw string) [32]byte {
	return internal.HashToken(raw)
}

// Issue generates a fresh opaque value, persists its record for the given
// owner, and returns the raw value alongside the record.
func Issue(ctx context.Context, store Store, userID string, ttl time.Duration) (string, *Token, error) {
	raw, err := internal.NewOpaqueToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	token := &Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		ValueHash: internal.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := store.Save(ctx, token); err != nil {
		return "", nil, err
	}

	return raw, token, nil
}
