package onetime

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/wanderstay/tourauth/internal"
)

// ErrInvalidOrExpired is an exported constant or variable used by the authentication engine.
var ErrInvalidOrExpired = errors.New("one-time token invalid or expired")

// Token is the generation result: the raw value leaves the process inside a
// link, the digest and expiry are what get persisted.
type Token struct {
	Raw       string
	Hash      [32]byte
	ExpiresAt time.Time
}

// Generate creates a fresh one-time token valid for the given window.
func Generate(window time.Duration) (Token, error) {
	raw, err := internal.NewOpaqueToken()
	if err != nil {
		return Token{}, err
	}
	return Token{
		Raw:       raw,
		Hash:      internal.HashToken(raw),
		ExpiresAt: time.Now().Add(window),
	}, nil
}

// Hash returns the storage digest for a raw token value. Lookups by digest
// use it; equality still goes through [Verify].
func Hash(raw string) [32]byte {
	return internal.HashToken(raw)
}

// Verify recomputes the digest of raw, compares it to storedHash in constant
// time, and checks that the window is still open. On success the caller must
// clear the stored digest and expiry so a replay fails.
func Verify(raw string, storedHash [32]byte, storedExpiry time.Time) error {
	computed := internal.HashToken(raw)

	// Evaluate both conditions before branching so the comparison cost does
	// not depend on expiry state.
	hashOK := subtle.ConstantTimeCompare(computed[:], storedHash[:]) == 1
	timeOK := !storedExpiry.IsZero() && !time.Now().After(storedExpiry)

	if !hashOK || !timeOK {
		return ErrInvalidOrExpired
	}
	return nil
}
