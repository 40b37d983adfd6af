// Package mongostore backs the tourauth collaborator interfaces with
// MongoDB: a UserProvider over a "users" collection and a refresh.Store
// over a "refresh_tokens" collection with a TTL index doing expiry
// housekeeping.
//
// # Architecture boundaries
//
// This package is persistence only. It maps engine records to BSON
// documents and engine sentinel errors to driver errors. Token generation,
// hashing, and every policy decision stay in the engine and its leaf
// packages.
package mongostore
