// Package rate provides the Redis-backed fixed-window counters behind the
// engine’s login throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key
// prefixes:
//   - tal:  — login per-email
//   - tali: — login per-IP
//
// # What this package must NOT do
//
//   - Decide when to throttle (the engine does, per its Security config).
//   - Be imported outside the tourauth module.
package rate
