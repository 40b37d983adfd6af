package internaldefs

import (
	"github.com/wanderstay/tourauth"
)

// CounterDef defines a public type used by tourauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   tourauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by tourauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   tourauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: tourauth.MetricLoginSuccess, Name: "tourauth_login_success_total", Help: "Successful login attempts."},
	{ID: tourauth.MetricLoginFailure, Name: "tourauth_login_failure_total", Help: "Failed login attempts."},
	{ID: tourauth.MetricLoginRateLimited, Name: "tourauth_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: tourauth.MetricRefreshSuccess, Name: "tourauth_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: tourauth.MetricRefreshFailure, Name: "tourauth_refresh_failure_total", Help: "Failed refresh rotations."},
	{ID: tourauth.MetricSignupSuccess, Name: "tourauth_signup_success_total", Help: "Successful signups."},
	{ID: tourauth.MetricSignupFailure, Name: "tourauth_signup_failure_total", Help: "Failed signups."},
	{ID: tourauth.MetricEmailConfirmSuccess, Name: "tourauth_email_confirm_success_total", Help: "Successful email confirmations."},
	{ID: tourauth.MetricEmailConfirmFailure, Name: "tourauth_email_confirm_failure_total", Help: "Failed email confirmations."},
	{ID: tourauth.MetricPasswordResetRequest, Name: "tourauth_password_reset_request_total", Help: "Password reset requests."},
	{ID: tourauth.MetricPasswordResetSuccess, Name: "tourauth_password_reset_success_total", Help: "Successful password reset confirmations."},
	{ID: tourauth.MetricPasswordResetFailure, Name: "tourauth_password_reset_failure_total", Help: "Failed password reset confirmations."},
	{ID: tourauth.MetricPasswordChangeSuccess, Name: "tourauth_password_change_success_total", Help: "Successful password changes."},
	{ID: tourauth.MetricPasswordChangeFailure, Name: "tourauth_password_change_failure_total", Help: "Failed password changes."},
	{ID: tourauth.MetricPhoneVerifyStart, Name: "tourauth_phone_verify_start_total", Help: "Started phone verifications."},
	{ID: tourauth.MetricPhoneVerifyCheck, Name: "tourauth_phone_verify_check_total", Help: "Checked phone verification codes."},
	{ID: tourauth.MetricEmailDeliveryFailure, Name: "tourauth_email_delivery_failure_total", Help: "Transactional emails that failed to send."},
	{ID: tourauth.MetricSessionIssued, Name: "tourauth_session_issued_total", Help: "Issued access/refresh session pairs."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: tourauth.MetricAuthenticateLatency, Name: "tourauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
