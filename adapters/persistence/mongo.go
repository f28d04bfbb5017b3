package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/khoahotran/profile-builder/internal/config"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

// NewMongoDatabase connects to mongo.uri. The database comes from the URI path,
// falling back to mongo.database.
func NewMongoDatabase(ctx context.Context, cfg config.Config, log logger.Logger) (*mongo.Database, error) {
	connDSN, err := connstring.ParseAndValidate(cfg.Mongo.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}

	client, err := mongo.Connect(ctx,
		options.Client().ApplyURI(connDSN.String()),
		options.Client().SetConnectTimeout(10*time.Second),
		options.Client().SetServerSelectionTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect failed: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	name := connDSN.Database
	if name == "" {
		name = cfg.Mongo.Database
	}
	log.Info("Connect MongoDB successfully.")
	return client.Database(name), nil
}
