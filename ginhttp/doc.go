// Package ginhttp exposes the tourauth flows as Gin handlers with the
// response envelope and cookie conventions of a classic session-cookie web
// app: every success is {"status":"success",...}, every failure is
// {"status":"fail"|"error","message":...}, and sessions ride in the "jwt"
// and "refreshToken" cookies alongside the JSON body.
//
// # Architecture boundaries
//
// Handlers parse requests, call the engine, and render responses. All
// authentication decisions, token handling, and persistence stay inside
// the engine; this package never touches a store or a signing key.
//
// # What this package must NOT do
//
//   - short-circuit engine errors with its own status logic
//   - read token internals beyond passing opaque strings around
package ginhttp
