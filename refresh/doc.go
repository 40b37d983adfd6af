// Package refresh persists the long-lived opaque refresh tokens and
// implements the rotation contract: a token is consumed (deleted) the moment
// it is used, and the caller issues a replacement bound to the same owner.
//
// Raw values never reach a store; records are keyed by the SHA-256 digest of
// the value. Concurrent consumes of the same value have exactly one winner —
// the Redis implementation guarantees this with an optimistic WATCH
// transaction, the Mongo implementation (package mongostore) with
// FindOneAndDelete.
//
// # What this package must NOT do
//
//   - Mint access tokens or touch user records; it stores and retires
//     refresh records, nothing else.
//   - Treat deleting an absent record as an error (revocation is
//     idempotent).
package refresh
