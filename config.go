package tourauth

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Config defines a public type used by tourauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT      JWTConfig
	Refresh  RefreshConfig
	OneTime  OneTimeConfig
	Password PasswordConfig
	Account  AccountConfig
	Cookie   CookieConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by tourauth APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
REFRESH TOKEN CONFIG
====================================
*/

// RefreshConfig defines a public type used by tourauth APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	TTL         time.Duration
	RedisPrefix string
}

/*
====================================
ONE-TIME TOKEN CONFIG
====================================
*/

// OneTimeConfig defines a public type used by tourauth APIs.
//
// OneTimeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OneTimeConfig struct {
	// ConfirmTTL bounds the email-confirmation window, ResetTTL the
	// password-reset window. The two are deliberately independent.
	ConfirmTTL time.Duration
	ResetTTL   time.Duration
}

// PasswordConfig defines a public type used by tourauth APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

// AccountConfig defines a public type used by tourauth APIs.
//
// AccountConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountConfig struct {
	DefaultRole Role

	// EmailConfirmURL and PasswordResetURL are the link bases the flows
	// append the raw one-time token to before handing the link to the
	// Mailer, e.g. "https://app.example.com/emailConfirm".
	EmailConfirmURL  string
	PasswordResetURL string
}

// CookieConfig defines a public type used by tourauth APIs.
//
// CookieConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	TTL         time.Duration
	Path        string
	Domain      string
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig defines a public type used by tourauth APIs.
//
// SecurityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecurityConfig struct {
	ProductionMode        bool
	RequireSecureCookies  bool
	SameSitePolicy        http.SameSite
	EnableLoginThrottle   bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// AuditConfig defines a public type used by tourauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by tourauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: 15 minute access tokens,
// 7 day refresh tokens, 10 minute confirm/reset windows, argon2id defaults,
// audit and metrics enabled.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			SigningMethod: "hs256",
			Leeway:        30 * time.Second,
		},
		Refresh: RefreshConfig{
			TTL:         7 * 24 * time.Hour,
			RedisPrefix: "tarf",
		},
		OneTime: OneTimeConfig{
			ConfirmTTL: 10 * time.Minute,
			ResetTTL:   10 * time.Minute,
		},
		Password: PasswordConfig{
			Memory:         64 * 1024,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		Account: AccountConfig{
			DefaultRole: RoleUser,
		},
		Cookie: CookieConfig{
			AccessName:  "jwt",
			RefreshName: "refreshToken",
			TTL:         7 * 24 * time.Hour,
			Path:        "/",
		},
		Security: SecurityConfig{
			SameSitePolicy:        http.SameSiteLaxMode,
			EnableLoginThrottle:   false,
			MaxLoginAttempts:      10,
			LoginCooldownDuration: 15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for internally inconsistent or unsafe
// values. Build calls it; callers normally do not.
func (c Config) Validate() error {
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT.AccessTTL must be positive")
	}
	switch strings.ToLower(c.JWT.SigningMethod) {
	case "hs256":
		if len(c.JWT.PrivateKey) < 32 {
			return errors.New("hs256 requires a private key of at least 32 bytes")
		}
	case "ed25519":
		if len(c.JWT.PrivateKey) == 0 || len(c.JWT.PublicKey) == 0 {
			return errors.New("ed25519 requires both private and public keys")
		}
	default:
		return errors.New("unsupported JWT signing method")
	}
	if c.Refresh.TTL <= c.JWT.AccessTTL {
		return errors.New("Refresh.TTL must exceed JWT.AccessTTL")
	}
	if c.OneTime.ConfirmTTL <= 0 || c.OneTime.ResetTTL <= 0 {
		return errors.New("OneTime windows must be positive")
	}
	if !c.Account.DefaultRole.Valid() {
		return errors.New("Account.DefaultRole is not a defined role")
	}
	if c.Cookie.AccessName == "" || c.Cookie.RefreshName == "" {
		return errors.New("cookie names must not be empty")
	}
	if c.Security.ProductionMode && !c.Security.RequireSecureCookies {
		return errors.New("ProductionMode requires RequireSecureCookies")
	}
	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("login throttle requires MaxLoginAttempts > 0")
		}
		if c.Security.LoginCooldownDuration <= 0 {
			return errors.New("login throttle requires a positive cooldown")
		}
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = append([]byte(nil), cfg.JWT.PrivateKey...)
	out.JWT.PublicKey = append([]byte(nil), cfg.JWT.PublicKey...)
	return out
}
