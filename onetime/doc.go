// Package onetime generates and verifies the single-use, time-boxed tokens
// embedded in email-confirmation and password-reset links.
//
// A token exists in two forms: the raw base64url value handed to the user
// (inside a link) and the SHA-256 digest persisted on the user record. The
// raw value is never stored; verification recomputes the digest and compares
// in constant time.
//
// # What this package must NOT do
//
//   - Persist anything. The caller stores (digest, expiry) and is
//     responsible for clearing both after one successful verification.
//   - Use non-constant-time comparison anywhere.
package onetime
