package database

import (
	"context"
	"fmt"

	"github.com/Mukulraj109/rez-backend-sub002/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Mongo bundles the client with the application database
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo dials MongoDB and verifies the primary is reachable
func ConnectMongo(ctx context.Context, cfg *config.MongoConfig, log *zap.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info("MongoDB connected", zap.String("database", cfg.Database))
	return &Mongo{Client: client, DB: client.Database(cfg.Database)}, nil
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
