package tourauth

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/wanderstay/tourauth/password"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis failed: %v", err)
	}

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestHasher(t *testing.T) *password.Argon2 {
	t.Helper()

	hasher, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return hasher
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password = PasswordConfig{
		Memory:         8 * 1024,
		Time:           1,
		Parallelism:    1,
		SaltLength:     16,
		KeyLength:      32,
		UpgradeOnLogin: true,
	}
	cfg.Account.EmailConfirmURL = "https://test.local/confirmEmail"
	cfg.Account.PasswordResetURL = "https://test.local/resetPassword"
	cfg.Audit.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T, rdb *redis.Client, up UserProvider, mailer Mailer, mutate ...func(*Config)) *Engine {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	builder := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(up)
	if mailer != nil {
		builder = builder.WithMailer(mailer)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

type stubProvider struct {
	mu        sync.Mutex
	seq       int
	users     map[string]*UserRecord
	createErr error
	saveErr   error

	saveCalls int
}

func newStubProvider() *stubProvider {
	return &stubProvider{users: make(map[string]*UserRecord)}
}

func (p *stubProvider) FindUserByEmail(_ context.Context, email string) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, u := range p.users {
		if u.Email == email {
			return copyRecord(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (p *stubProvider) FindUserByID(_ context.Context, id string) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u, ok := p.users[id]; ok {
		return copyRecord(u), nil
	}
	return nil, ErrUserNotFound
}

func (p *stubProvider) FindUserByConfirmTokenHash(_ context.Context, hash [32]byte) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if hash == ([32]byte{}) {
		return nil, ErrUserNotFound
	}
	for _, u := range p.users {
		if u.ConfirmTokenHash == hash {
			return copyRecord(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (p *stubProvider) FindUserByResetTokenHash(_ context.Context, hash [32]byte) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if hash == ([32]byte{}) {
		return nil, ErrUserNotFound
	}
	for _, u := range p.users {
		if u.ResetTokenHash == hash {
			return copyRecord(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (p *stubProvider) CreateUser(_ context.Context, input CreateUserInput) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.createErr != nil {
		return nil, p.createErr
	}

	for _, u := range p.users {
		if u.Email == input.Email {
			return nil, ErrAccountExists
		}
	}

	p.seq++
	user := &UserRecord{
		ID:                "u" + strconv.Itoa(p.seq),
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		PasswordHash:      input.PasswordHash,
		Role:              input.Role,
		EmailConfirmed:    input.EmailConfirmed,
		PasswordChangedAt: input.PasswordChangedAt,
	}
	p.users[user.ID] = user

	return copyRecord(user), nil
}

func (p *stubProvider) SaveUser(_ context.Context, user *UserRecord, _ bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.saveCalls++
	if p.saveErr != nil {
		return p.saveErr
	}

	if _, ok := p.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	p.users[user.ID] = copyRecord(user)
	return nil
}

func (p *stubProvider) get(t *testing.T, id string) *UserRecord {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[id]
	if !ok {
		t.Fatalf("user %s not in provider", id)
	}
	return copyRecord(u)
}

func (p *stubProvider) delete(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.users, id)
}

func copyRecord(u *UserRecord) *UserRecord {
	c := *u
	return &c
}

// seedUser inserts a confirmed account with the given credentials.
func seedUser(t *testing.T, p *stubProvider, hasher *password.Argon2, email, pass string, role Role) *UserRecord {
	t.Helper()

	hash, err := hasher.Hash(pass)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	user, err := p.CreateUser(context.Background(), CreateUserInput{
		Name:           "Test User",
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		EmailConfirmed: true,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

type stubMailer struct {
	mu           sync.Mutex
	welcomeLinks []string
	resetLinks   []string
	welcomeErr   error
	resetErr     error
}

func (m *stubMailer) SendWelcome(_ context.Context, _ UserRecord, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.welcomeErr != nil {
		return m.welcomeErr
	}
	m.welcomeLinks = append(m.welcomeLinks, link)
	return nil
}

func (m *stubMailer) SendPasswordReset(_ context.Context, _ UserRecord, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resetErr != nil {
		return m.resetErr
	}
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func (m *stubMailer) lastWelcomeToken(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.welcomeLinks) == 0 {
		t.Fatal("no welcome mail sent")
	}
	return tokenFromLink(m.welcomeLinks[len(m.welcomeLinks)-1])
}

func (m *stubMailer) lastResetToken(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.resetLinks) == 0 {
		t.Fatal("no reset mail sent")
	}
	return tokenFromLink(m.resetLinks[len(m.resetLinks)-1])
}

func tokenFromLink(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}

type stubVerifier struct {
	mu         sync.Mutex
	startCalls []string
	checkCalls []string
	startErr   error
	checkErr   error
}

func (v *stubVerifier) StartVerification(_ context.Context, phoneNumber, channel string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.startCalls = append(v.startCalls, phoneNumber+"/"+channel)
	return v.startErr
}

func (v *stubVerifier) CheckVerification(_ context.Context, phoneNumber, code string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkCalls = append(v.checkCalls, phoneNumber+"/"+code)
	return v.checkErr
}

func expireUserChallenge(p *stubProvider, id string, confirm bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u := p.users[id]
	if confirm {
		u.ConfirmTokenExpiresAt = time.Now().Add(-time.Minute)
	} else {
		u.ResetTokenExpiresAt = time.Now().Add(-time.Minute)
	}
}
