package tourauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/wanderstay/tourauth/internal/rate"
	"github.com/wanderstay/tourauth/jwt"
	"github.com/wanderstay/tourauth/password"
	"github.com/wanderstay/tourauth/refresh"
)

// Builder assembles an [Engine] from a configuration and its collaborators.
// Collaborators are attached with the With methods and validated once in
// [Builder.Build]; a Builder is single-use and not safe for concurrent use.
type Builder struct {
	config       Config
	configSet    bool
	redisClient  redis.UniversalClient
	refreshStore refresh.Store
	userProvider UserProvider
	mailer       Mailer
	smsVerifier  SMSVerifier
	auditSink    AuditSink
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the default configuration. Call it before Build; the
// configuration is cloned so later mutation by the caller has no effect.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	b.configSet = true
	return b
}

// WithRedis attaches the Redis client backing the refresh-token store and,
// when enabled, the login throttle.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redisClient = client
	return b
}

// WithRefreshStore overrides the Redis-backed refresh store with a custom
// [refresh.Store] implementation.
func (b *Builder) WithRefreshStore(store refresh.Store) *Builder {
	b.refreshStore = store
	return b
}

// WithUserProvider attaches the user persistence collaborator. Required.
func (b *Builder) WithUserProvider(provider UserProvider) *Builder {
	b.userProvider = provider
	return b
}

// WithMailer attaches the transactional mail collaborator. Defaults to
// [NoOpMailer] when omitted.
func (b *Builder) WithMailer(mailer Mailer) *Builder {
	b.mailer = mailer
	return b
}

// WithSMSVerifier attaches the phone verification provider. Optional; the
// phone verification operations fail [ErrEngineNotReady] without one.
func (b *Builder) WithSMSVerifier(verifier SMSVerifier) *Builder {
	b.smsVerifier = verifier
	return b
}

// WithAuditSink attaches the sink audit events are dispatched to. Defaults
// to [NoOpSink] when auditing is enabled without a sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and collaborators and returns a ready
// [Engine]. The engine owns a background audit goroutine when auditing is
// enabled; callers release it with [Engine.Close].
func (b *Builder) Build() (*Engine, error) {
	cfg := b.config
	if !b.configSet {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.userProvider == nil {
		return nil, errors.New("a UserProvider is required")
	}

	store := b.refreshStore
	if store == nil {
		if b.redisClient == nil {
			return nil, errors.New("a Redis client or a refresh.Store is required")
		}
		store = refresh.NewRedisStore(b.redisClient, cfg.Refresh.RedisPrefix)
	}

	var limiter *rate.Limiter
	if cfg.Security.EnableLoginThrottle {
		if b.redisClient == nil {
			return nil, errors.New("the login throttle requires a Redis client")
		}
		limiter = rate.New(b.redisClient, rate.Config{
			MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
			LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
		})
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		PrivateKey:    cfg.JWT.PrivateKey,
		PublicKey:     cfg.JWT.PublicKey,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	mailer := b.mailer
	if mailer == nil {
		mailer = NoOpMailer{}
	}

	return &Engine{
		config:       cfg,
		refreshStore: store,
		rateLimiter:  limiter,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
		passwordHash: hasher,
		jwtManager:   jwtManager,
		userProvider: b.userProvider,
		mailer:       mailer,
		smsVerifier:  b.smsVerifier,
	}, nil
}
