package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/exercise-tracker/apiserver/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second
	defaultMaxPoolSize    = 25
	defaultMinPoolSize    = 0
	defaultConnMaxIdle    = 2 * time.Minute
)

// Collection names.
const (
	UsersCollection     = "users"
	ExercisesCollection = "exercises"
)

// Open connects to MongoDB and verifies the connection with a ping.
// Indexes are not created here; run the migrate command to provision them.
func Open(ctx context.Context, cfg config.Config) (*mongo.Client, error) {
	uri := strings.TrimSpace(cfg.Database.URI)
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(defaultConnectTimeout).
		SetMaxPoolSize(defaultMaxPoolSize).
		SetMinPoolSize(defaultMinPoolSize).
		SetMaxConnIdleTime(defaultConnMaxIdle)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// Ping checks that the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}

// Database returns the handle for the configured database.
func Database(client *mongo.Client, cfg config.Config) *mongo.Database {
	return client.Database(cfg.Database.DatabaseName())
}
