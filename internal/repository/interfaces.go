package repository

import (
	"context"
	"time"

	"github.com/Kerhoff/QueueboT/internal/models"
)

// ChatRepository defines the storage contract for chats and their queues.
// Each chat is one document; queue mutations are expressed as updates on
// the chat document so concurrent mutations of different queues within a
// chat do not trample each other at the storage level. Every call that
// mutates a queue stamps its last_modified.
type ChatRepository interface {
	GetChat(ctx context.Context, chatID int64) (*models.Chat, error)
	// CreateOrGetChat upserts the chat document, refreshing the stored
	// title if it changed.
	CreateOrGetChat(ctx context.Context, chatID int64, title string) (*models.Chat, error)
	GetAllChats(ctx context.Context) ([]*models.Chat, error)

	GetQueue(ctx context.Context, chatID int64, queueID string) (*models.Queue, error)
	GetQueueByName(ctx context.Context, chatID int64, name string) (*models.Queue, error)
	// CreateQueue is idempotent by name: when a queue with this name
	// already exists its id is returned without modification.
	CreateQueue(ctx context.Context, chatID int64, title, name string) (string, error)
	// DeleteQueue removes the queue; when the chat's queue map becomes
	// empty the chat document is deleted with it.
	DeleteQueue(ctx context.Context, chatID int64, queueID string) error
	RenameQueue(ctx context.Context, chatID int64, queueID, newName string) error
	SetQueueDescription(ctx context.Context, chatID int64, queueID, description string) error

	AddMember(ctx context.Context, chatID int64, queueID string, m models.Member) error
	UpdateMembers(ctx context.Context, chatID int64, queueID string, members []models.Member) error

	SetQueueMessageID(ctx context.Context, chatID int64, queueID string, messageID int) error
	GetListMessageID(ctx context.Context, chatID int64) (*int, error)
	SetListMessageID(ctx context.Context, chatID int64, messageID int) error
	ClearListMessageID(ctx context.Context, chatID int64) error

	GetQueueExpiration(ctx context.Context, chatID int64, queueID string) (*time.Time, error)
	SetQueueExpiration(ctx context.Context, chatID int64, queueID string, expiresAt time.Time) error
	ClearQueueExpiration(ctx context.Context, chatID int64, queueID string) error
}

// UserRepository defines the storage contract for user profiles and
// display name overrides.
type UserRepository interface {
	// EnsureProfile upserts the handle snapshot for a user.
	EnsureProfile(ctx context.Context, userID int64, username string) (*models.UserProfile, error)
	// SetDisplayName writes the override for a scope ("global" or a
	// decimal chat id). An empty value removes the override.
	SetDisplayName(ctx context.Context, userID int64, scope, value string) error
}
