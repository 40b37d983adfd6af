package refresh

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const recordVersionV1 = 1

// RedisStore is the Redis-backed [Store]. Records are binary-encoded and
// expire with a key TTL matching the token lifetime, so Redis garbage
// collects stale records on its own.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a [RedisStore] with the given key prefix (default
// "tarf").
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "tarf"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(valueHash [32]byte) string {
	return s.prefix + ":" + base64.RawURLEncoding.EncodeToString(valueHash[:])
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Save(ctx context.Context, token *Token) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: record already expired", ErrUnavailable)
	}

	encoded, err := encodeRecord(token)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(token.ValueHash), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Get(ctx context.Context, valueHash [32]byte) (*Token, error) {
	data, err := s.redis.Get(ctx, s.key(valueHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return decodeRecord(data, valueHash)
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Delete(ctx context.Context, valueHash [32]byte) error {
	if err := s.redis.Del(ctx, s.key(valueHash)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Consume(ctx context.Context, valueHash [32]byte) (*Token, error) {
	const maxRetries = 4
	key := s.key(valueHash)

	for i := 0; i < maxRetries; i++ {
		var consumed *Token

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeRecord(data, valueHash)
			if err != nil {
				return err
			}

			if record.Expired() {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return ErrExpired
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			consumed = record
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return nil, ErrNotFound
			case errors.Is(err, ErrExpired), errors.Is(err, ErrNotFound):
				return nil, err
			default:
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		return consumed, nil
	}

	// Lost the optimistic transaction every round: some other consumer
	// won, so the value is gone.
	return nil, ErrNotFound
}

func encodeRecord(token *Token) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, token.CreatedAt.Unix()); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, token.ExpiresAt.Unix()); err != nil {
		return nil, err
	}
	if err := writeString(&buf, token.ID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, token.UserID); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeRecord(data []byte, valueHash [32]byte) (*Token, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated record", ErrUnavailable)
	}
	if version != recordVersionV1 {
		return nil, fmt.Errorf("%w: unknown record version %d", ErrUnavailable, version)
	}

	var createdAt, expiresAt int64
	if err := binary.Read(r, binary.BigEndian, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: truncated record", ErrUnavailable)
	}
	if err := binary.Read(r, binary.BigEndian, &expiresAt); err != nil {
		return nil, fmt.Errorf("%w: truncated record", ErrUnavailable)
	}

	id, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated record", ErrUnavailable)
	}
	userID, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated record", ErrUnavailable)
	}

	return &Token{
		ID:        id,
		UserID:    userID,
		ValueHash: valueHash,
		CreatedAt: time.Unix(createdAt, 0),
		ExpiresAt: time.Unix(expiresAt, 0),
	}, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 0xFFFF {
		return errors.New("string field too long")
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return "", err
	}
	return string(out), nil
}
