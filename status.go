package tourauth

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an engine error to the HTTP status code a transport adapter
// should respond with. Unknown errors map to 500 so internals never leak
// through a transport envelope.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrPasswordConfirmMismatch),
		errors.Is(err, ErrPasswordPolicy),
		errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrOneTimeTokenInvalid),
		errors.Is(err, ErrSMSVerification):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrEmailUnconfirmed),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenMissing),
		errors.Is(err, ErrAccountGone),
		errors.Is(err, ErrPasswordChanged):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRefreshNotFound),
		errors.Is(err, ErrRefreshExpired):
		return http.StatusNotFound
	case errors.Is(err, ErrLoginRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
