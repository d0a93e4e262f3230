package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

// NewHelpHandler creates a new help command handler
func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

// Handle processes the /help command
func (h *HelpHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	helpText := `📖 *QueueboT commands*

*Everyone:*
• /create <name> [-h hours] — create a queue (default lifetime 24 h)
• /queues — open the queues-list menu
• /nickname <name> — display name in this chat (empty to reset)
• /nickname\_global <name> — display name everywhere (empty to reset)

*Admins:*
• /delete <queue> — delete one queue
• /delete\_all — delete every queue
• /insert <queue> <name> [pos] — place a participant
• /remove <queue> <name|pos> — remove a participant
• /replace <queue> <p1> <p2> — swap two participants
• /rename <old> <new> — rename a queue
• /set\_expire\_time <queue> <hours> — change the lifetime
• /set\_description <queue> [text] — set or clear the description

Queues auto-delete when their time runs out, but any queue used within
the last hour gets one more hour per activity burst.`

	if _, err := bot.Send(message.Chat.ID, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return nil
}
