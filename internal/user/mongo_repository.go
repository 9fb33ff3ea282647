package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding users.
const CollectionName = "users"

type userDocument struct {
	ID                   bson.ObjectID `bson:"_id,omitempty"`
	Email                string        `bson:"email"`
	Password             string        `bson:"password"`
	Name                 string        `bson:"name"`
	CreatedAt            time.Time     `bson:"createdAt"`
	UpdatedAt            time.Time     `bson:"updatedAt"`
	RefreshToken         *string       `bson:"refreshToken,omitempty"`
	PasswordResetToken   *string       `bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time    `bson:"passwordResetExpires,omitempty"`
}

// MongoRepository stores users in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique index on email.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

func (r *MongoRepository) NewID() string {
	return bson.NewObjectID().Hex()
}

func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	oid := bson.NewObjectID()
	if u.ID != "" {
		parsed, err := bson.ObjectIDFromHex(u.ID)
		if err != nil {
			return fmt.Errorf("failed to create user: invalid id %q", u.ID)
		}
		oid = parsed
	}

	now := time.Now().UTC()
	doc := userDocument{
		ID:           oid,
		Email:        u.Email,
		Password:     u.PasswordHash,
		Name:         u.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
		RefreshToken: u.RefreshToken,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	*u = *doc.toModel()
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, "get user by id", bson.M{"_id": oid})
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "get user by email", bson.M{"email": email})
}

func (r *MongoRepository) GetByIDAndRefreshToken(ctx context.Context, id, token string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, "get user by refresh token", bson.M{"_id": oid, "refreshToken": token})
}

func (r *MongoRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.updateByID(ctx, id, "set refresh token", bson.M{
		"$set": bson.M{"refreshToken": token, "updatedAt": time.Now().UTC()},
	})
}

func (r *MongoRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, "clear refresh token", bson.M{
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
		"$unset": bson.M{"refreshToken": ""},
	})
}

func (r *MongoRepository) SetPasswordReset(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, "set password reset", bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expiresAt.UTC(),
			"updatedAt":            time.Now().UTC(),
		},
	})
}

func (r *MongoRepository) GetByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	return r.findOne(ctx, "get user by reset token", resetFilter(tokenHash, now))
}

func (r *MongoRepository) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time, passwordHash string) error {
	result, err := r.coll.UpdateOne(ctx, resetFilter(tokenHash, now), bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"passwordResetToken": "", "passwordResetExpires": ""},
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func resetFilter(tokenHash string, now time.Time) bson.M {
	return bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now.UTC()},
	}
}

func (r *MongoRepository) findOne(ctx context.Context, op string, filter bson.M) (*User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) updateByID(ctx context.Context, id, op string, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *userDocument) toModel() *User {
	return &User{
		ID:                   d.ID.Hex(),
		Email:                d.Email,
		PasswordHash:         d.Password,
		Name:                 d.Name,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		RefreshToken:         d.RefreshToken,
		PasswordResetToken:   d.PasswordResetToken,
		PasswordResetExpires: d.PasswordResetExpires,
	}
}
