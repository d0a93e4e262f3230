package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chat is one stored document: a Telegram chat together with all of its
// queues. A chat with zero queues is removed from storage entirely, so a
// loaded Chat always has at least one queue.
type Chat struct {
	ChatID            int64             `json:"chat_id" bson:"chat_id"`
	Title             string            `json:"chat_title" bson:"chat_title"`
	LastListMessageID *int              `json:"last_list_message_id" bson:"last_list_message_id,omitempty"`
	Queues            map[string]*Queue `json:"queues" bson:"queues"`
}

// Queue is an ordered list of members within one chat. The ID is an opaque
// token that stays stable across renames.
type Queue struct {
	ID                 string     `json:"id" bson:"id"`
	Name               string     `json:"name" bson:"name"`
	Description        string     `json:"description" bson:"description,omitempty"`
	Members            []Member   `json:"members" bson:"members"`
	LastQueueMessageID *int       `json:"last_queue_message_id" bson:"last_queue_message_id,omitempty"`
	LastModified       time.Time  `json:"last_modified" bson:"last_modified"`
	Expiration         *time.Time `json:"expiration" bson:"expiration,omitempty"`
}

// Member is one entry in a queue. UserID may be nil for placeholder entries
// inserted by admins; such entries are identified by display name until a
// platform user with that name interacts with the queue.
type Member struct {
	UserID      *int64 `json:"user_id" bson:"user_id,omitempty"`
	DisplayName string `json:"display_name" bson:"display_name"`
}

// Same reports whether two members denote the same participant: by user id
// when both carry one, otherwise by display name.
func (m Member) Same(other Member) bool {
	if m.UserID != nil && other.UserID != nil {
		return *m.UserID == *other.UserID
	}
	return m.DisplayName == other.DisplayName
}

// GetQueueByName returns the queue with the given name, or nil.
func (c *Chat) GetQueueByName(name string) *Queue {
	for _, q := range c.Queues {
		if q.Name == name {
			return q
		}
	}
	return nil
}

// QueueNames returns the names of all queues in the chat.
func (c *Chat) QueueNames() []string {
	names := make([]string, 0, len(c.Queues))
	for _, q := range c.Queues {
		names = append(names, q.Name)
	}
	return names
}

// NewQueueID generates a short opaque queue id. Queue ids appear inside
// pipe-delimited callback payloads, so they must never contain '|'.
func NewQueueID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
