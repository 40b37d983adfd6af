package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	minPassBytes          = 8
	algorithmID           = "argon2id"
)

// ErrPasswordTooShort is an exported constant or variable used by the authentication engine.
var ErrPasswordTooShort = errors.New("password must be at least 8 bytes")

// Config defines a public type used by tourauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2 defines a public type used by tourauth APIs.
//
// Argon2 instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Argon2 struct {
	config Config
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
	keyLength   uint32
}

// NewArgon2 describes the newargon2 operation and its observable behavior.
//
// NewArgon2 may return an error when input validation, dependency calls, or security checks fail.
// NewArgon2 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewArgon2(cfg Config) (*Argon2, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Argon2{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) Hash(password string) (string, error) {
	// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
	if len(password) < minPassBytes {
		return "", ErrPasswordTooShort
	}

	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	saltEncoded := base64.StdEncoding.EncodeToString(salt)
	hashEncoded := base64.StdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		saltEncoded,
		hashEncoded,
	), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) Verify(password string, encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		parsed.keyLength,
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

// NeedsUpgrade describes the needsupgrade operation and its observable behavior.
//
// NeedsUpgrade may return an error when input validation, dependency calls, or security checks fail.
// NeedsUpgrade does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	if a.config.Memory > parsed.memory {
		return true, nil
	}
	if a.config.Time > parsed.time {
		return true, nil
	}
	if a.config.Parallelism > parsed.parallelism {
		return true, nil
	}
	if a.config.KeyLength != parsed.keyLength {
		return true, nil
	}

	return false, nil
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("memory below safe minimum")
	}
	if cfg.Time < minTimeCost {
		return errors.New("time cost below safe minimum")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("parallelism below safe minimum")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("salt length below safe minimum")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("key length below safe minimum")
	}
	return nil
}

// parsePHC decodes a "$argon2id$v=19$m=..,t=..,p=..$salt$hash" string. Only
// the argon2id variant at the library's version is accepted, and the encoded
// parameters must still clear the configured minimums so a weakened hash
// cannot verify.
func parsePHC(encodedHash string) (*parsedPHC, error) {
	rest, ok := strings.CutPrefix(encodedHash, "$"+algorithmID+"$")
	if !ok {
		return nil, errors.New("invalid PHC format")
	}

	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return nil, errors.New("invalid PHC format")
	}

	version, err := cutParam(fields[0], "v")
	if err != nil || version != uint64(argon2.Version) {
		return nil, errors.New("unsupported argon2 version")
	}

	parsed := &parsedPHC{}
	if err := parseCostParams(fields[1], parsed); err != nil {
		return nil, err
	}

	if parsed.salt, err = base64.StdEncoding.DecodeString(fields[2]); err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if len(parsed.salt) < int(minSaltLength) {
		return nil, errors.New("invalid salt length")
	}

	if parsed.hash, err = base64.StdEncoding.DecodeString(fields[3]); err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(parsed.hash) == 0 {
		return nil, errors.New("invalid hash length")
	}
	parsed.keyLength = uint32(len(parsed.hash))

	return parsed, nil
}

// parseCostParams reads the "m=..,t=..,p=.." field in its canonical order.
func parseCostParams(field string, out *parsedPHC) error {
	pairs := strings.Split(field, ",")
	if len(pairs) != 3 {
		return errors.New("invalid parameter format")
	}

	memory, err := cutParam(pairs[0], "m")
	if err != nil || memory < uint64(minMemoryKB) || memory > uint64(^uint32(0)) {
		return errors.New("invalid memory parameter")
	}

	time, err := cutParam(pairs[1], "t")
	if err != nil || time < uint64(minTimeCost) || time > uint64(^uint32(0)) {
		return errors.New("invalid time parameter")
	}

	parallelism, err := cutParam(pairs[2], "p")
	if err != nil || parallelism < uint64(minParallelism) || parallelism > 255 {
		return errors.New("invalid parallelism parameter")
	}

	out.memory = uint32(memory)
	out.time = uint32(time)
	out.parallelism = uint8(parallelism)
	return nil
}

func cutParam(pair, key string) (uint64, error) {
	value, ok := strings.CutPrefix(pair, key+"=")
	if !ok {
		return 0, errors.New("malformed parameter")
	}
	return strconv.ParseUint(value, 10, 64)
}
