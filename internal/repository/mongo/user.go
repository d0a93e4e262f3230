package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/repository"
)

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a UserRepository backed by the "users"
// collection.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{col: db.Collection("users")}
}

func (r *userRepository) EnsureProfile(ctx context.Context, userID int64, username string) (*models.UserProfile, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set":         bson.M{"username": username},
		"$setOnInsert": bson.M{"display_names": bson.M{}},
	}
	profile := &models.UserProfile{}
	err := r.col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile %d: %w", userID, err)
	}
	return profile, nil
}

func (r *userRepository) SetDisplayName(ctx context.Context, userID int64, scope, value string) error {
	var update bson.M
	if value == "" {
		update = bson.M{"$unset": bson.M{"display_names." + scope: ""}}
	} else {
		update = bson.M{"$set": bson.M{"display_names." + scope: value}}
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set display name for user %d: %w", userID, err)
	}
	return nil
}
