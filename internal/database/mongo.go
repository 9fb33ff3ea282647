package database

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// The Mongo client is shared by every caller in the process.
var (
	mongoMu     sync.Mutex
	mongoClient *mongo.Client
)

// ConnectMongo returns the process-wide Mongo client, connecting on first use.
// A failed connection is not cached, so a later call retries.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	mongoMu.Lock()
	defer mongoMu.Unlock()

	if mongoClient != nil {
		return mongoClient, nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	mongoClient = client
	return client, nil
}

// DisconnectMongo closes the process-wide client if one is open.
func DisconnectMongo(ctx context.Context) error {
	mongoMu.Lock()
	defer mongoMu.Unlock()

	if mongoClient == nil {
		return nil
	}
	err := mongoClient.Disconnect(ctx)
	mongoClient = nil
	if err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	return nil
}
