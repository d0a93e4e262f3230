package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Storage holds the Mongo client and the application database.
type Storage struct {
	Client *mongo.Client
	DB     *mongo.Database
	logger *logrus.Logger
}

// NewStorage connects to MongoDB, retrying with backoff a bounded number
// of times before giving up.
func NewStorage(uri, database string, logger *logrus.Logger) (*Storage, error) {
	var client *mongo.Client
	var err error

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			err = client.Ping(ctx, readpref.Primary())
		}
		cancel()

		if err == nil {
			logger.Info("Storage connection established successfully")
			return &Storage{
				Client: client,
				DB:     client.Database(database),
				logger: logger,
			}, nil
		}

		logger.Warnf("Storage connection attempt %d/%d failed: %v", attempt, connectAttempts, err)
		if attempt < connectAttempts {
			time.Sleep(connectBackoff * time.Duration(attempt))
		}
	}

	return nil, fmt.Errorf("failed to connect to storage after %d attempts: %w", connectAttempts, err)
}

// Close disconnects the Mongo client.
func (s *Storage) Close() error {
	if s.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}
