package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/repository"
)

// Messenger is the chat-platform surface the service renders through.
// Implemented by telegram.MessageService; faked in tests.
type Messenger interface {
	SendQueue(ctx context.Context, chatID int64, q *models.Queue) error
	EditQueue(ctx context.Context, chatID int64, q *models.Queue, triggerMessageID int) error
	DeleteMessage(chatID int64, messageID int)
	ShowSwapPrompt(ctx context.Context, chatID int64, q *models.Queue, swapID, requesterName, targetName string) (int, error)
	ShowList(ctx context.Context, chat *models.Chat, triggerMessageID int) error
	HideList(ctx context.Context, chatID int64) error
	SendEphemeral(chatID int64, text string)
}

// ActionContext carries the identity of one user-visible action through
// resolution, locking and logging.
type ActionContext struct {
	ChatID    int64
	ChatTitle string
	QueueID   string
	QueueName string
	Actor     models.Actor
	ThreadID  int
}

// Service is the central business logic layer: every user-visible action
// enters here, acquires the per-chat lock, mutates the domain model,
// persists it, and re-renders the displayed messages.
type Service struct {
	logger *logrus.Logger
	Chats  repository.ChatRepository
	Users  repository.UserRepository
	locks  ChatLocker
	msg    Messenger

	Expirations *ExpirationScheduler
	Swaps       *SwapService
}

// New creates a Service together with its expiration scheduler and swap
// table, all sharing one per-chat lock table.
func New(logger *logrus.Logger, chats repository.ChatRepository, users repository.UserRepository, msg Messenger) *Service {
	locks := NewChatLocks()
	s := &Service{
		logger: logger,
		Chats:  chats,
		Users:  users,
		locks:  locks,
		msg:    msg,
	}
	s.Expirations = NewExpirationScheduler(chats, locks, msg, logger)
	s.Swaps = NewSwapService(chats, locks, msg, logger)
	return s
}

// Messenger exposes the platform surface for handlers that render menus
// directly (queue menu, swap picker).
func (s *Service) Messenger() Messenger { return s.msg }

// actionLog returns a structured log entry for an action.
func (s *Service) actionLog(ac ActionContext, event string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"chat_title": ac.ChatTitle,
		"queue":      ac.QueueName,
		"actor":      ac.Actor.Username,
		"event":      event,
	})
}

// UserMessage translates a typed failure into a short user-visible text.
// An empty string marks an internal error that must not be surfaced.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrChatNotFound):
		return "ℹ️ There are no queues in this chat yet. Create one with /create."
	case errors.Is(err, models.ErrQueueNotFound):
		return "❌ Queue not found."
	case errors.Is(err, models.ErrQueueAlreadyExists):
		return "❌ A queue with this name already exists."
	case errors.Is(err, models.ErrUserAlreadyExists):
		return "ℹ️ You are already in this queue."
	case errors.Is(err, models.ErrUserNotFound):
		return "❌ No such participant in the queue."
	case errors.Is(err, models.ErrInvalidPosition):
		return "❌ Invalid position."
	case errors.Is(err, models.ErrMembersEmpty):
		return "ℹ️ The queue is empty."
	case errors.Is(err, models.ErrSwapNotFound):
		return "ℹ️ This swap request is no longer active."
	case errors.Is(err, models.ErrSwapPermission):
		return "❌ Only the invited participant can respond to this swap."
	}
	return ""
}
