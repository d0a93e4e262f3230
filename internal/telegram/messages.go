package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/repository"
)

// ephemeralTTL is how long user-feedback messages stay visible.
const ephemeralTTL = 10 * time.Second

// MessageService tracks the single "current" displayed message per queue
// and the single queues-list menu per chat. All methods are called from
// inside the per-chat lock, so a render always observes the state written
// by the same critical section.
type MessageService struct {
	bot    *Bot
	repo   repository.ChatRepository
	logger *logrus.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(bot *Bot, repo repository.ChatRepository, logger *logrus.Logger) *MessageService {
	return &MessageService{bot: bot, repo: repo, logger: logger}
}

// Telegram reports benign outcomes as errors; these are success for our
// purposes.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "message to delete not found") ||
		strings.Contains(err.Error(), "message to edit not found") ||
		strings.Contains(err.Error(), "message can't be deleted")
}

// SendQueue posts a fresh queue message, deleting the previously recorded
// one best effort, and records the new message id.
func (s *MessageService) SendQueue(ctx context.Context, chatID int64, q *models.Queue) error {
	if q.LastQueueMessageID != nil {
		s.DeleteMessage(chatID, *q.LastQueueMessageID)
	}

	messageID, err := s.bot.SendWithKeyboard(chatID, RenderQueue(q), QueueKeyboard(q.ID))
	if err != nil {
		return err
	}
	q.LastQueueMessageID = &messageID
	return s.repo.SetQueueMessageID(ctx, chatID, q.ID, messageID)
}

// EditQueue re-renders the queue in place with the default keyboard.
func (s *MessageService) EditQueue(ctx context.Context, chatID int64, q *models.Queue, triggerMessageID int) error {
	return s.EditQueueWith(ctx, chatID, q, triggerMessageID, QueueKeyboard(q.ID))
}

// EditQueueWith re-renders the queue with an arbitrary keyboard. It
// prefers editing the triggering message, then the recorded one; when
// neither can be edited it sends a new message and records its id.
func (s *MessageService) EditQueueWith(ctx context.Context, chatID int64, q *models.Queue, triggerMessageID int, keyboard tgbotapi.InlineKeyboardMarkup) error {
	text := RenderQueue(q)

	var candidates []int
	if triggerMessageID != 0 {
		candidates = append(candidates, triggerMessageID)
	}
	if q.LastQueueMessageID != nil && (triggerMessageID == 0 || *q.LastQueueMessageID != triggerMessageID) {
		candidates = append(candidates, *q.LastQueueMessageID)
	}

	for _, messageID := range candidates {
		err := s.bot.EditWithKeyboard(chatID, messageID, text, keyboard)
		if err == nil || isNotModified(err) {
			if q.LastQueueMessageID == nil || *q.LastQueueMessageID != messageID {
				q.LastQueueMessageID = &messageID
				return s.repo.SetQueueMessageID(ctx, chatID, q.ID, messageID)
			}
			return nil
		}
		s.logger.WithFields(logrus.Fields{
			"chat_id":    chatID,
			"message_id": messageID,
			"error":      err,
		}).Warn("Failed to edit queue message")
	}

	// Nothing editable left: post a new message.
	messageID, err := s.bot.SendWithKeyboard(chatID, text, keyboard)
	if err != nil {
		return err
	}
	q.LastQueueMessageID = &messageID
	return s.repo.SetQueueMessageID(ctx, chatID, q.ID, messageID)
}

// DeleteMessage removes a message best effort; a message that is already
// gone is not an error.
func (s *MessageService) DeleteMessage(chatID int64, messageID int) {
	if err := s.bot.DeleteMessage(chatID, messageID); err != nil && !isNotFound(err) {
		s.logger.WithFields(logrus.Fields{
			"chat_id":    chatID,
			"message_id": messageID,
			"error":      err,
		}).Warn("Failed to delete message")
	}
}

// ShowSwapPrompt posts the Yes/No confirmation addressed to the swap
// target and returns its message id. The id is owned by the swap request,
// not by the repository.
func (s *MessageService) ShowSwapPrompt(ctx context.Context, chatID int64, q *models.Queue, swapID, requesterName, targetName string) (int, error) {
	return s.bot.SendWithKeyboard(chatID,
		RenderSwapPrompt(q, requesterName, targetName),
		SwapConfirmKeyboard(q.ID, swapID))
}

// ShowList displays the queues-list menu, editing the triggering or
// recorded message when possible, and records the menu's message id.
func (s *MessageService) ShowList(ctx context.Context, chat *models.Chat, triggerMessageID int) error {
	text := RenderQueueList(chat)
	keyboard := QueueListKeyboard(chat)

	var candidates []int
	if triggerMessageID != 0 {
		candidates = append(candidates, triggerMessageID)
	}
	if chat.LastListMessageID != nil && (triggerMessageID == 0 || *chat.LastListMessageID != triggerMessageID) {
		candidates = append(candidates, *chat.LastListMessageID)
	}

	for _, messageID := range candidates {
		err := s.bot.EditWithKeyboard(chat.ChatID, messageID, text, keyboard)
		if err == nil || isNotModified(err) {
			if chat.LastListMessageID == nil || *chat.LastListMessageID != messageID {
				chat.LastListMessageID = &messageID
				return s.repo.SetListMessageID(ctx, chat.ChatID, messageID)
			}
			return nil
		}
	}

	messageID, err := s.bot.SendWithKeyboard(chat.ChatID, text, keyboard)
	if err != nil {
		return err
	}
	chat.LastListMessageID = &messageID
	return s.repo.SetListMessageID(ctx, chat.ChatID, messageID)
}

// HideList deletes the recorded list-menu message and clears its id.
func (s *MessageService) HideList(ctx context.Context, chatID int64) error {
	messageID, err := s.repo.GetListMessageID(ctx, chatID)
	if err != nil {
		return err
	}
	if messageID != nil {
		s.DeleteMessage(chatID, *messageID)
	}
	return s.repo.ClearListMessageID(ctx, chatID)
}

// SendEphemeral posts a short-lived feedback message that deletes itself.
func (s *MessageService) SendEphemeral(chatID int64, text string) {
	messageID, err := s.bot.Send(chatID, text)
	if err != nil {
		s.logger.Warnf("Failed to send feedback to chat %d: %v", chatID, err)
		return
	}
	time.AfterFunc(ephemeralTTL, func() {
		s.DeleteMessage(chatID, messageID)
	})
}
