package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{logger: logger}
}

// Handle processes the /start command
func (h *StartHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	welcomeText := `🎯 *Welcome to QueueboT!*

I keep ordered queues of participants in this chat: join, leave, swap
places with consent, and let inactive queues expire on their own.

*Getting started:*
• /create <name> — create a queue (add ` + "`-h 12`" + ` for a 12-hour lifetime)
• /queues — open the list of queues
• /nickname <name> — how you appear in this chat

Use /help for the full command list.`

	if _, err := bot.Send(message.Chat.ID, welcomeText); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent start message")

	return nil
}
