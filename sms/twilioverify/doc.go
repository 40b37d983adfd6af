// Package twilioverify implements the tourauth SMSVerifier against the
// Twilio Verify v2 REST API. The engine treats the whole exchange as an
// opaque pass-through: this package reports delivery and code-check
// verdicts and nothing else.
package twilioverify
