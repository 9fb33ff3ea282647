package database

import (
	"context"
	"fmt"

	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/location"
	"github.com/pollenow/pollenow/internal/logging"
	"github.com/pollenow/pollenow/internal/user"
)

// Store bundles the repositories backed by the configured driver.
type Store struct {
	Users     user.Repository
	Locations location.Repository
	close     func(ctx context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured database and prepares its schema.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory store, data will not survive a restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// NewMemoryStore returns a store backed by process memory.
func NewMemoryStore() *Store {
	return &Store{
		Users:     user.NewMemoryRepository(),
		Locations: location.NewMemoryRepository(),
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*Store, error) {
	client, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.DBName)

	users := user.NewMongoRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	locations := location.NewMongoRepository(db)
	if err := locations.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create location indexes: %w", err)
	}

	logger.Info("connected to mongo", "database", cfg.DBName)
	return &Store{Users: users, Locations: locations, close: DisconnectMongo}, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*Store, error) {
	db, err := OpenPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}

	users := user.NewBunRepository(db)
	if err := users.CreateTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}
	locations := location.NewBunRepository(db)
	if err := locations.CreateTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create user_locations table: %w", err)
	}

	logger.Info("connected to postgres", "host", cfg.Host, "database", cfg.DBName)
	return &Store{
		Users:     users,
		Locations: locations,
		close:     func(context.Context) error { return db.Close() },
	}, nil
}
