// Package jwt implements the access-token codec: HS256 or ed25519 signed
// tokens binding a subject ID and issue time, with a fixed TTL.
//
// # Architecture boundaries
//
// This package owns signing and parsing only. It does not know about users,
// refresh tokens, or persistence; the root engine translates parse failures
// into its own error taxonomy.
//
// # What this package must NOT do
//
//   - Accept tokens signed with an algorithm other than the configured one
//     (algorithm confusion hardening).
//   - Read keys from anywhere but the [Config] handed to [NewManager].
package jwt
