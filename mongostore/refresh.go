package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wanderstay/tourauth/refresh"
)

const refreshCollection = "refresh_tokens"

type refreshDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	ValueHash []byte    `bson:"valueHash"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// RefreshStore is the MongoDB-backed [refresh.Store]. A TTL index on
// expiresAt garbage-collects stale records; Consume still checks expiry
// itself because TTL deletion runs on a background cadence.
type RefreshStore struct {
	col *mongo.Collection
}

// NewRefreshStore describes the newrefreshstore operation and its observable behavior.
//
// NewRefreshStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRefreshStore(db *mongo.Database) *RefreshStore {
	return &RefreshStore{col: db.Collection(refreshCollection)}
}

// EnsureIndexes creates the unique value-hash index and the TTL expiry
// index. Call it once at startup.
func (s *RefreshStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "valueHash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	return err
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RefreshStore) Save(ctx context.Context, token *refresh.Token) error {
	doc := refreshDocument{
		ID:        token.ID,
		UserID:    token.UserID,
		ValueHash: token.ValueHash[:],
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	}

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: %v", refresh.ErrUnavailable, err)
	}
	return nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RefreshStore) Get(ctx context.Context, valueHash [32]byte) (*refresh.Token, error) {
	var doc refreshDocument
	if err := s.col.FindOne(ctx, bson.M{"valueHash": valueHash[:]}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, refresh.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", refresh.ErrUnavailable, err)
	}
	return tokenFromDocument(doc), nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RefreshStore) Delete(ctx context.Context, valueHash [32]byte) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"valueHash": valueHash[:]}); err != nil {
		return fmt.Errorf("%w: %v", refresh.ErrUnavailable, err)
	}
	return nil
}

// Consume atomically removes and returns the record. FindOneAndDelete is a
// single-document atomic operation, so racing consumers of the same digest
// see exactly one success.
func (s *RefreshStore) Consume(ctx context.Context, valueHash [32]byte) (*refresh.Token, error) {
	var doc refreshDocument
	err := s.col.FindOneAndDelete(ctx, bson.M{"valueHash": valueHash[:]}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, refresh.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", refresh.ErrUnavailable, err)
	}

	token := tokenFromDocument(doc)
	if token.Expired() {
		return nil, refresh.ErrExpired
	}
	return token, nil
}

func tokenFromDocument(doc refreshDocument) *refresh.Token {
	token := &refresh.Token{
		ID:        doc.ID,
		UserID:    doc.UserID,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}
	copy(token.ValueHash[:], doc.ValueHash)
	return token
}
