package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const opaqueTokenSize = 32

// NewOpaqueToken returns a 256-bit random value encoded as unpadded
// base64url. Used for both refresh tokens and one-time challenge tokens.
func NewOpaqueToken() (string, error) {
	var raw [opaqueTokenSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// HashToken is the digest stored at rest in place of a raw token value.
func HashToken(raw string) [32]byte {
	return sha256.Sum256([]byte(raw))
}
