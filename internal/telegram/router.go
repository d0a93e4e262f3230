package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Router handles message routing, command parsing and callback dispatch
type Router struct {
	logger    *logrus.Logger
	handlers  map[string]CommandHandler
	callbacks map[string]CallbackHandler
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot *Bot, message *tgbotapi.Message, args []string) error
}

// CallbackHandler defines the interface for callback-query handlers,
// keyed by the payload scope
type CallbackHandler interface {
	HandleCallback(bot *Bot, query *tgbotapi.CallbackQuery, data CallbackData) error
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:    logger,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a callback handler for a scope
func (r *Router) RegisterCallback(scope string, handler CallbackHandler) {
	r.callbacks[scope] = handler
	r.logger.Debugf("Registered callback scope: %s", scope)
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot *Bot, message *tgbotapi.Message) {
	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
		"text":       message.Text,
	}).Debug("Received message")

	// Only process text commands
	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		}).Warn("Unknown command")
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
			"error":   err,
		}).Error("Command handler failed")
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards.
// Payloads are parsed once here; malformed ones are logged and dropped
// (stale buttons are expected, user feedback is not).
func (r *Router) HandleCallbackQuery(bot *Bot, query *tgbotapi.CallbackQuery) {
	r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"user_id":     query.From.ID,
		"data":        query.Data,
	}).Debug("Received callback query")

	bot.AnswerCallback(query.ID, "")

	data, err := ParseCallback(query.Data)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"user_id": query.From.ID,
			"data":    query.Data,
		}).Warn("Dropping malformed callback payload")
		return
	}

	handler, exists := r.callbacks[data.Scope]
	if !exists {
		r.logger.Warnf("No handler for callback scope %q", data.Scope)
		return
	}

	if err := handler.HandleCallback(bot, query, data); err != nil {
		r.logger.WithFields(logrus.Fields{
			"scope":   data.Scope,
			"action":  data.Action,
			"chat_id": query.Message.Chat.ID,
			"user_id": query.From.ID,
			"error":   err,
		}).Error("Callback handler failed")
	}
}
