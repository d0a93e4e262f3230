package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const insertTimeout = 3 * time.Second

// MongoHook mirrors info-and-above log entries into a capped-style
// audit collection so moderation actions stay reviewable after restarts.
type MongoHook struct {
	collection *mongo.Collection
}

// NewMongoHook creates a hook writing to the "logs" collection of db.
func NewMongoHook(db *mongo.Database) *MongoHook {
	return &MongoHook{collection: db.Collection("logs")}
}

// Levels returns the levels the hook fires on.
func (h *MongoHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire writes one log entry. Errors are returned to logrus, which prints
// them to stderr without affecting the main log stream.
func (h *MongoHook) Fire(entry *logrus.Entry) error {
	doc := bson.M{
		"timestamp": entry.Time.UTC(),
		"level":     entry.Level.String(),
		"message":   entry.Message,
	}
	for key, value := range entry.Data {
		if err, ok := value.(error); ok {
			doc[key] = err.Error()
			continue
		}
		doc[key] = value
	}

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	_, err := h.collection.InsertOne(ctx, doc)
	return err
}
