// Package tourauth provides the authentication and authorization engine for a
// tour-booking backend: JWT access tokens, rotating opaque refresh tokens,
// hashed one-time tokens for email confirmation and password reset, and
// request guards for role-gated routes.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// tourauth is the public surface. It exposes [Engine], [Builder], [Config],
// the collaborator interfaces ([UserProvider], [Mailer], [SMSVerifier]), and
// value types ([Session], [AuditEvent], [MetricsSnapshot]). Audit dispatch,
// metric counters, token entropy, and login throttling live under internal/
// and are never exported. Leaf packages jwt, onetime, refresh, password,
// middleware, ginhttp, and mongostore each cover exactly one concern.
//
// # What this package must NOT do
//
//   - Read configuration from the environment at call time; all knobs are
//     fixed in [Config] before Build.
//   - Interpret mailer or SMS provider payloads beyond success/failure.
//   - Persist raw one-time tokens or raw refresh values; only SHA-256
//     digests ever reach a store.
//
// # Token lifecycle contract
//
// Access tokens are stateless and expire on their own; there is no
// server-side revocation list. A password change soft-revokes every access
// token issued before it. Refresh tokens are single-use: [Engine.Refresh]
// consumes the presented value atomically and issues a replacement, so a
// replayed value always fails with [ErrRefreshNotFound].
package tourauth
