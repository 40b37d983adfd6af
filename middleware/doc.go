// Package middleware provides net/http request guards over a tourauth
// Engine: a hard authentication gate, a soft variant for public pages, and
// a role gate.
//
// # Architecture boundaries
//
// This package only adapts the engine to net/http. It extracts credentials
// from requests, delegates every decision to the engine, and translates
// engine errors into JSON error responses. Framework-specific adapters
// (gin) live in their own packages.
//
// # What this package must NOT do
//
//   - verify tokens or inspect claims itself
//   - read or write any store
//   - issue sessions or set cookies
package middleware
