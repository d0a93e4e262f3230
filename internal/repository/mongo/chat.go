package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/repository"
)

type chatRepository struct {
	col *mongo.Collection
}

// NewChatRepository creates a ChatRepository backed by the "chats"
// collection, one document per chat.
func NewChatRepository(db *mongo.Database) repository.ChatRepository {
	return &chatRepository{col: db.Collection("chats")}
}

// qpath builds the dotted path to a field of one queue inside the chat
// document, e.g. "queues.ab12cd34ef56.members".
func qpath(queueID, field string) string {
	return "queues." + queueID + "." + field
}

func (r *chatRepository) GetChat(ctx context.Context, chatID int64) (*models.Chat, error) {
	chat := &models.Chat{}
	err := r.col.FindOne(ctx, bson.M{"chat_id": chatID}).Decode(chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("chat %d: %w", chatID, models.ErrChatNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat %d: %w", chatID, err)
	}
	return chat, nil
}

func (r *chatRepository) CreateOrGetChat(ctx context.Context, chatID int64, title string) (*models.Chat, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set":         bson.M{"chat_title": title},
		"$setOnInsert": bson.M{"queues": bson.M{}},
	}
	chat := &models.Chat{}
	err := r.col.FindOneAndUpdate(ctx, bson.M{"chat_id": chatID}, update, opts).Decode(chat)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert chat %d: %w", chatID, err)
	}
	return chat, nil
}

func (r *chatRepository) GetAllChats(ctx context.Context) ([]*models.Chat, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer cursor.Close(ctx)

	var chats []*models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chats: %w", err)
	}
	return chats, nil
}

func (r *chatRepository) GetQueue(ctx context.Context, chatID int64, queueID string) (*models.Queue, error) {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	q, ok := chat.Queues[queueID]
	if !ok {
		return nil, fmt.Errorf("queue %s in chat %d: %w", queueID, chatID, models.ErrQueueNotFound)
	}
	return q, nil
}

func (r *chatRepository) GetQueueByName(ctx context.Context, chatID int64, name string) (*models.Queue, error) {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if q := chat.GetQueueByName(name); q != nil {
		return q, nil
	}
	return nil, fmt.Errorf("queue %q in chat %d: %w", name, chatID, models.ErrQueueNotFound)
}

func (r *chatRepository) CreateQueue(ctx context.Context, chatID int64, title, name string) (string, error) {
	chat, err := r.CreateOrGetChat(ctx, chatID, title)
	if err != nil {
		return "", err
	}
	// Idempotent by name: a second create returns the existing id.
	if q := chat.GetQueueByName(name); q != nil {
		return q.ID, nil
	}

	queue := &models.Queue{
		ID:           models.NewQueueID(),
		Name:         name,
		Members:      []models.Member{},
		LastModified: time.Now().UTC(),
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$set": bson.M{"queues." + queue.ID: queue}},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create queue %q in chat %d: %w", name, chatID, err)
	}
	return queue.ID, nil
}

func (r *chatRepository) DeleteQueue(ctx context.Context, chatID int64, queueID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID, qpath(queueID, "id"): queueID},
		bson.M{"$unset": bson.M{"queues." + queueID: ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete queue %s in chat %d: %w", queueID, chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("queue %s in chat %d: %w", queueID, chatID, models.ErrQueueNotFound)
	}

	// A chat with zero queues is removed from storage entirely.
	_, err = r.col.DeleteOne(ctx, bson.M{"chat_id": chatID, "queues": bson.M{}})
	if err != nil {
		return fmt.Errorf("failed to prune empty chat %d: %w", chatID, err)
	}
	return nil
}

// setQueueFields applies a $set on queue fields, stamping last_modified in
// the same update so activity ordering stays coherent for the grace rule.
func (r *chatRepository) setQueueFields(ctx context.Context, chatID int64, queueID string, fields bson.M) error {
	fields[qpath(queueID, "last_modified")] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID, qpath(queueID, "id"): queueID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("failed to update queue %s in chat %d: %w", queueID, chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("queue %s in chat %d: %w", queueID, chatID, models.ErrQueueNotFound)
	}
	return nil
}

func (r *chatRepository) RenameQueue(ctx context.Context, chatID int64, queueID, newName string) error {
	return r.setQueueFields(ctx, chatID, queueID, bson.M{qpath(queueID, "name"): newName})
}

func (r *chatRepository) SetQueueDescription(ctx context.Context, chatID int64, queueID, description string) error {
	return r.setQueueFields(ctx, chatID, queueID, bson.M{qpath(queueID, "description"): description})
}

func (r *chatRepository) AddMember(ctx context.Context, chatID int64, queueID string, m models.Member) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID, qpath(queueID, "id"): queueID},
		bson.M{
			"$push": bson.M{qpath(queueID, "members"): m},
			"$set":  bson.M{qpath(queueID, "last_modified"): time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add member to queue %s in chat %d: %w", queueID, chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("queue %s in chat %d: %w", queueID, chatID, models.ErrQueueNotFound)
	}
	return nil
}

func (r *chatRepository) UpdateMembers(ctx context.Context, chatID int64, queueID string, members []models.Member) error {
	return r.setQueueFields(ctx, chatID, queueID, bson.M{qpath(queueID, "members"): members})
}

// SetQueueMessageID records the current displayed message. Message-id
// bookkeeping is not user activity, so it does not stamp last_modified.
func (r *chatRepository) SetQueueMessageID(ctx context.Context, chatID int64, queueID string, messageID int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID, qpath(queueID, "id"): queueID},
		bson.M{"$set": bson.M{qpath(queueID, "last_queue_message_id"): messageID}},
	)
	if err != nil {
		return fmt.Errorf("failed to set message id for queue %s in chat %d: %w", queueID, chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("queue %s in chat %d: %w", queueID, chatID, models.ErrQueueNotFound)
	}
	return nil
}

func (r *chatRepository) GetListMessageID(ctx context.Context, chatID int64) (*int, error) {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return chat.LastListMessageID, nil
}

func (r *chatRepository) SetListMessageID(ctx context.Context, chatID int64, messageID int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$set": bson.M{"last_list_message_id": messageID}},
	)
	if err != nil {
		return fmt.Errorf("failed to set list message id for chat %d: %w", chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("chat %d: %w", chatID, models.ErrChatNotFound)
	}
	return nil
}

func (r *chatRepository) ClearListMessageID(ctx context.Context, chatID int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$unset": bson.M{"last_list_message_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear list message id for chat %d: %w", chatID, err)
	}
	return nil
}

func (r *chatRepository) GetQueueExpiration(ctx context.Context, chatID int64, queueID string) (*time.Time, error) {
	q, err := r.GetQueue(ctx, chatID, queueID)
	if err != nil {
		return nil, err
	}
	return q.Expiration, nil
}

func (r *chatRepository) SetQueueExpiration(ctx context.Context, chatID int64, queueID string, expiresAt time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID, qpath(queueID, "id"): queueID},
		bson.M{"$set": bson.M{qpath(queueID, "expiration"): expiresAt.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set expiration for queue %s in chat %d: %w", queueID, chatID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("queue %s in chat %d: %w", queueID, chatID, models.ErrQueueNotFound)
	}
	return nil
}

func (r *chatRepository) ClearQueueExpiration(ctx context.Context, chatID int64, queueID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID, qpath(queueID, "id"): queueID},
		bson.M{"$unset": bson.M{qpath(queueID, "expiration"): ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear expiration for queue %s in chat %d: %w", queueID, chatID, err)
	}
	return nil
}
