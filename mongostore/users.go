package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wanderstay/tourauth"
)

const usersCollection = "users"

type userDocument struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	Name                  string             `bson:"name"`
	Email                 string             `bson:"email"`
	Phone                 string             `bson:"phone,omitempty"`
	Password              string             `bson:"password"`
	Role                  string             `bson:"role"`
	EmailConfirmed        bool               `bson:"emailConfirmed"`
	PasswordChangedAt     time.Time          `bson:"passwordChangedAt,omitempty"`
	ConfirmTokenHash      []byte             `bson:"confirmTokenHash,omitempty"`
	ConfirmTokenExpiresAt time.Time          `bson:"confirmTokenExpiresAt,omitempty"`
	ResetTokenHash        []byte             `bson:"resetTokenHash,omitempty"`
	ResetTokenExpiresAt   time.Time          `bson:"resetTokenExpiresAt,omitempty"`
}

// UserStore is the MongoDB-backed [tourauth.UserProvider].
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore describes the newuserstore operation and its observable behavior.
//
// NewUserStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index and the challenge-hash
// lookup indexes. Call it once at startup.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "confirmTokenHash", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "resetTokenHash", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	return err
}

// FindUserByEmail describes the finduserbyemail operation and its observable behavior.
//
// FindUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// FindUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*tourauth.UserRecord, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindUserByID describes the finduserbyid operation and its observable behavior.
//
// FindUserByID may return an error when input validation, dependency calls, or security checks fail.
// FindUserByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *UserStore) FindUserByID(ctx context.Context, id string) (*tourauth.UserRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, tourauth.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// FindUserByConfirmTokenHash describes the finduserbyconfirmtokenhash operation and its observable behavior.
//
// FindUserByConfirmTokenHash may return an error when input validation, dependency calls, or security checks fail.
// FindUserByConfirmTokenHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *UserStore) FindUserByConfirmTokenHash(ctx context.Context, hash [32]byte) (*tourauth.UserRecord, error) {
	return s.findOne(ctx, bson.M{"confirmTokenHash": hash[:]})
}

// FindUserByResetTokenHash describes the finduserbyresettokenhash operation and its observable behavior.
//
// FindUserByResetTokenHash may return an error when input validation, dependency calls, or security checks fail.
// FindUserByResetTokenHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *UserStore) FindUserByResetTokenHash(ctx context.Context, hash [32]byte) (*tourauth.UserRecord, error) {
	return s.findOne(ctx, bson.M{"resetTokenHash": hash[:]})
}

// CreateUser describes the createuser operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *UserStore) CreateUser(ctx context.Context, input tourauth.CreateUserInput) (*tourauth.UserRecord, error) {
	doc := userDocument{
		ID:                primitive.NewObjectID(),
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		Password:          input.PasswordHash,
		Role:              input.Role.String(),
		EmailConfirmed:    input.EmailConfirmed,
		PasswordChangedAt: input.PasswordChangedAt,
	}

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, tourauth.ErrAccountExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return recordFromDocument(doc)
}

// SaveUser describes the saveuser operation and its observable behavior.
//
// SaveUser may return an error when input validation, dependency calls, or security checks fail.
// SaveUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *UserStore) SaveUser(ctx context.Context, user *tourauth.UserRecord, validate bool) error {
	if validate {
		if user.Name == "" || user.Email == "" || user.PasswordHash == "" {
			return tourauth.ErrMissingFields
		}
	}

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return tourauth.ErrUserNotFound
	}

	doc := documentFromRecord(user)
	doc.ID = oid

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tourauth.ErrAccountExists
		}
		return fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return tourauth.ErrUserNotFound
	}

	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*tourauth.UserRecord, error) {
	var doc userDocument
	if err := s.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, tourauth.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return recordFromDocument(doc)
}

func recordFromDocument(doc userDocument) (*tourauth.UserRecord, error) {
	role, err := tourauth.ParseRole(doc.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", doc.ID.Hex(), err)
	}

	record := &tourauth.UserRecord{
		ID:                    doc.ID.Hex(),
		Name:                  doc.Name,
		Email:                 doc.Email,
		Phone:                 doc.Phone,
		PasswordHash:          doc.Password,
		Role:                  role,
		EmailConfirmed:        doc.EmailConfirmed,
		PasswordChangedAt:     doc.PasswordChangedAt,
		ConfirmTokenExpiresAt: doc.ConfirmTokenExpiresAt,
		ResetTokenExpiresAt:   doc.ResetTokenExpiresAt,
	}
	copy(record.ConfirmTokenHash[:], doc.ConfirmTokenHash)
	copy(record.ResetTokenHash[:], doc.ResetTokenHash)

	return record, nil
}

func documentFromRecord(user *tourauth.UserRecord) userDocument {
	doc := userDocument{
		Name:                  user.Name,
		Email:                 user.Email,
		Phone:                 user.Phone,
		Password:              user.PasswordHash,
		Role:                  user.Role.String(),
		EmailConfirmed:        user.EmailConfirmed,
		PasswordChangedAt:     user.PasswordChangedAt,
		ConfirmTokenExpiresAt: user.ConfirmTokenExpiresAt,
		ResetTokenExpiresAt:   user.ResetTokenExpiresAt,
	}

	// A zero digest means "no challenge outstanding" and is stored as an
	// absent field so the sparse indexes skip it.
	if user.ConfirmTokenHash != ([32]byte{}) {
		doc.ConfirmTokenHash = user.ConfirmTokenHash[:]
	}
	if user.ResetTokenHash != ([32]byte{}) {
		doc.ResetTokenHash = user.ResetTokenHash[:]
	}

	return doc
}
