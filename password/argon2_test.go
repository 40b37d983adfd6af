package password

import (
	"errors"
	"strings"
	"testing"
)

func newTestHasher(t *testing.T, cfg Config) *Argon2 {
	t.Helper()

	h, err := NewArgon2(cfg)
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}

func lowCostConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t, lowCostConfig())

	encoded, err := h.Hash("correct-horse-1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected PHC prefix: %q", encoded)
	}

	ok, err := h.Verify("correct-horse-1", encoded)
	if err != nil || !ok {
		t.Fatalf("Verify failed, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("wrong-password", encoded)
	if err != nil {
		t.Fatalf("Verify errored: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashSaltsAreUnique(t *testing.T) {
	h := newTestHasher(t, lowCostConfig())

	a, err := h.Hash("correct-horse-1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := h.Hash("correct-horse-1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := newTestHasher(t, lowCostConfig())

	if _, err := h.Hash("seven77"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	// Exactly eight bytes passes.
	if _, err := h.Hash("eight888"); err != nil {
		t.Fatalf("eight-byte password failed: %v", err)
	}
}

func TestNeedsUpgrade(t *testing.T) {
	weak := newTestHasher(t, lowCostConfig())

	encoded, err := weak.Hash("correct-horse-1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	same, err := weak.NeedsUpgrade(encoded)
	if err != nil {
		t.Fatalf("NeedsUpgrade failed: %v", err)
	}
	if same {
		t.Fatal("hash at current parameters must not need upgrade")
	}

	strongCfg := lowCostConfig()
	strongCfg.Time = 2
	strong := newTestHasher(t, strongCfg)

	needs, err := strong.NeedsUpgrade(encoded)
	if err != nil {
		t.Fatalf("NeedsUpgrade failed: %v", err)
	}
	if !needs {
		t.Fatal("weaker hash must need upgrade under stronger parameters")
	}
}

func TestVerifyRejectsMalformedPHC(t *testing.T) {
	h := newTestHasher(t, lowCostConfig())

	for _, encoded := range []string{
		"",
		"not-a-phc-string",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=1$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := h.Verify("whatever-pass", encoded); err == nil {
			t.Fatalf("expected error for %q", encoded)
		}
	}
}

func TestNewArgon2RejectsWeakConfig(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Memory = 1024 },
		func(c *Config) { c.Time = 0 },
		func(c *Config) { c.Parallelism = 0 },
		func(c *Config) { c.SaltLength = 8 },
		func(c *Config) { c.KeyLength = 8 },
	}

	for i, mutate := range cases {
		cfg := lowCostConfig()
		mutate(&cfg)
		if _, err := NewArgon2(cfg); err == nil {
			t.Fatalf("case %d: expected config rejection", i)
		}
	}
}
