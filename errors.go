package tourauth

import "errors"

var (
	// ErrMissingFields is an exported constant or variable used by the authentication engine.
	ErrMissingFields = errors.New("please provide email and password")
	// ErrPasswordConfirmMismatch is an exported constant or variable used by the authentication engine.
	ErrPasswordConfirmMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrEmailUnconfirmed is an exported constant or variable used by the authentication engine.
	ErrEmailUnconfirmed = errors.New("email address not confirmed")
	// ErrAccountExists is an exported constant or variable used by the authentication engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user no longer exists")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrTokenMissing is an exported constant or variable used by the authentication engine.
	ErrTokenMissing = errors.New("you are not logged in")
	// ErrPasswordChanged is an exported constant or variable used by the authentication engine.
	ErrPasswordChanged = errors.New("password changed after token was issued")
	// ErrAccountGone is an exported constant or variable used by the authentication engine.
	ErrAccountGone = errors.New("the account belonging to this token no longer exists")
	// ErrPermissionDenied is an exported constant or variable used by the authentication engine.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	// ErrRefreshNotFound is an exported constant or variable used by the authentication engine.
	ErrRefreshNotFound = errors.New("refresh token not found")
	// ErrRefreshExpired is an exported constant or variable used by the authentication engine.
	ErrRefreshExpired = errors.New("refresh token expired, please sign in again")
	// ErrRefreshUnavailable is an exported constant or variable used by the authentication engine.
	ErrRefreshUnavailable = errors.New("refresh token backend unavailable")
	// ErrOneTimeTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrOneTimeTokenInvalid = errors.New("token is invalid or has expired")
	// ErrEmailDelivery is an exported constant or variable used by the authentication engine.
	ErrEmailDelivery = errors.New("there was an error sending the email")
	// ErrSMSVerification is an exported constant or variable used by the authentication engine.
	ErrSMSVerification = errors.New("phone verification failed")
	// ErrLoginRateLimited is an exported constant or variable used by the authentication engine.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrInvalidRole is an exported constant or variable used by the authentication engine.
	ErrInvalidRole = errors.New("invalid account role")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
