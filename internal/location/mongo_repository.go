package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding saved locations.
const CollectionName = "user_locations"

type locationDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      bson.ObjectID `bson:"userId"`
	ZipCode     string        `bson:"zipCode"`
	Coordinates *Coordinates  `bson:"coordinates,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

// MongoRepository stores locations keyed by the owning user's ObjectID.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique index on userId.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user_locations index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, userID string) (*Location, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc locationDocument
	if err := r.coll.FindOne(ctx, bson.M{"userId": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Upsert(ctx context.Context, userID, zipCode string, coords *Coordinates) (*Location, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to save location: invalid user id %q", userID)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"zipCode": zipCode, "updatedAt": now},
		"$setOnInsert": bson.M{"userId": uid, "createdAt": now},
	}
	if coords != nil {
		update["$set"].(bson.M)["coordinates"] = coords
	} else {
		update["$unset"] = bson.M{"coordinates": ""}
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc locationDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": uid}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID string) error {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"userId": uid})
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *locationDocument) toModel() *Location {
	return &Location{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		ZipCode:     d.ZipCode,
		Coordinates: d.Coordinates,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
