package tourauth

import (
	"context"
	"time"
)

// UserRecord is the full account record exchanged with a [UserProvider].
// It carries the credential hash, role, email-confirmation state, and the
// hashed one-time challenges for email confirmation and password reset.
//
// The engine never persists raw one-time tokens: only their SHA-256 digests
// are written into ConfirmTokenHash / ResetTokenHash. A zero hash together
// with a zero expiry means "no challenge outstanding".
type UserRecord struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	PasswordHash   string
	Role           Role
	EmailConfirmed bool

	// PasswordChangedAt soft-revokes access tokens issued before it.
	PasswordChangedAt time.Time

	ConfirmTokenHash      [32]byte
	ConfirmTokenExpiresAt time.Time
	ResetTokenHash        [32]byte
	ResetTokenExpiresAt   time.Time
}

// Sanitized returns a copy of the record with the password hash and
// outstanding challenge hashes stripped, suitable for returning to callers.
func (u UserRecord) Sanitized() UserRecord {
	u.PasswordHash = ""
	u.ConfirmTokenHash = [32]byte{}
	u.ResetTokenHash = [32]byte{}
	return u
}

// CreateUserInput is the input for [UserProvider.CreateUser].
type CreateUserInput struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role

	EmailConfirmed    bool
	PasswordChangedAt time.Time
}

// UserProvider is the persistence interface callers must implement to
// integrate tourauth with their user database. Implementations must enforce
// email uniqueness ([ErrAccountExists] on duplicates) and return
// [ErrUserNotFound] for all absent-record cases.
//
// SaveUser's validate flag mirrors the two write modes the flows need:
// challenge rotation and flag flips are persisted without re-running full
// document validation, while password changes are.
type UserProvider interface {
	FindUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindUserByID(ctx context.Context, id string) (*UserRecord, error)
	FindUserByConfirmTokenHash(ctx context.Context, hash [32]byte) (*UserRecord, error)
	FindUserByResetTokenHash(ctx context.Context, hash [32]byte) (*UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*UserRecord, error)
	SaveUser(ctx context.Context, user *UserRecord, validate bool) error
}

// Mailer delivers the transactional emails the flows dispatch. The link
// arguments already embed the raw one-time token; implementations only
// deliver, they never inspect or store the token.
type Mailer interface {
	SendWelcome(ctx context.Context, user UserRecord, confirmLink string) error
	SendPasswordReset(ctx context.Context, user UserRecord, resetLink string) error
}

// SMSVerifier is the opaque pass-through to a third-party phone verification
// provider. The engine forwards success/failure and interprets nothing else.
type SMSVerifier interface {
	StartVerification(ctx context.Context, phoneNumber, channel string) error
	CheckVerification(ctx context.Context, phoneNumber, code string) error
}

// Session is the pair of credentials returned by every flow that logs the
// caller in. User is always sanitized.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         UserRecord
}

// SignupRequest is the input for [Engine.Signup]. Role defaults to
// [Config.Account.DefaultRole] when left at the zero value by callers that
// pass RoleUser explicitly or not at all.
type SignupRequest struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	PasswordConfirm string
	Role            Role
}
