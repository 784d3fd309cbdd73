package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// namespaceExists is the server error code for creating a collection that is
// already there.
const namespaceExists = 48

// ensureCollection creates name with the given options unless it exists.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, opts *options.CreateCollectionOptions) error {
	err := db.CreateCollection(ctx, name, opts)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists {
		return nil
	}
	return err
}

// Migrate creates the collections, validators and indexes every repository
// relies on. It is idempotent and runs once at startup.
func Migrate(ctx context.Context, db *mongo.Database) error {
	if err := NewTaskRepository(db).EnsureSchema(ctx); err != nil {
		return fmt.Errorf("tasks schema: %w", err)
	}
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := NewCatalogRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("catalog indexes: %w", err)
	}
	return nil
}
