package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// actorFrom maps a Telegram user to the domain actor.
func actorFrom(user *tgbotapi.User) models.Actor {
	return models.Actor{
		ID:        user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// contextFrom builds the ActionContext for a command message.
func contextFrom(message *tgbotapi.Message) service.ActionContext {
	title := message.Chat.Title
	if title == "" {
		title = message.From.FirstName + "'s chat"
	}
	return service.ActionContext{
		ChatID:    message.Chat.ID,
		ChatTitle: title,
		Actor:     actorFrom(message.From),
		ThreadID:  message.MessageThreadID,
	}
}

// callbackContext builds the ActionContext for a button callback.
func callbackContext(query *tgbotapi.CallbackQuery) service.ActionContext {
	return service.ActionContext{
		ChatID:    query.Message.Chat.ID,
		ChatTitle: query.Message.Chat.Title,
		Actor:     actorFrom(query.From),
	}
}

// feedback classifies an operation failure. User-input errors become a
// short self-deleting message; internal errors are logged and swallowed
// so nothing leaks into the chat. Always returns nil: by this point the
// error has been fully handled.
func feedback(svc *service.Service, logger *logrus.Logger, chatID int64, err error, fields logrus.Fields) error {
	if err == nil {
		return nil
	}
	if text := service.UserMessage(err); text != "" {
		metrics.UserErrorsTotal.Inc()
		svc.Messenger().SendEphemeral(chatID, text)
		logger.WithFields(fields).WithError(err).Warn("Rejected user action")
		return nil
	}
	metrics.InternalErrorsTotal.Inc()
	logger.WithFields(fields).WithError(err).Error("Action failed")
	return nil
}

// requireAdminQuery is requireAdmin for button presses.
func requireAdminQuery(bot *telegram.Bot, svc *service.Service, query *tgbotapi.CallbackQuery) bool {
	if query.Message.Chat.IsPrivate() {
		return true
	}
	ok, err := bot.IsAdmin(query.Message.Chat.ID, query.From.ID)
	if err != nil {
		svc.Messenger().SendEphemeral(query.Message.Chat.ID, "❌ Could not verify admin rights, try again.")
		return false
	}
	if !ok {
		svc.Messenger().SendEphemeral(query.Message.Chat.ID, "🚫 Only chat admins can do that.")
	}
	return ok
}

// requireAdmin checks the caller's admin status for mutating commands.
// Private chats are always allowed; non-admins in groups get a short
// self-deleting rejection.
func requireAdmin(bot *telegram.Bot, svc *service.Service, message *tgbotapi.Message) bool {
	if message.Chat.IsPrivate() {
		return true
	}
	ok, err := bot.IsAdmin(message.Chat.ID, message.From.ID)
	if err != nil {
		svc.Messenger().SendEphemeral(message.Chat.ID, "❌ Could not verify admin rights, try again.")
		return false
	}
	if !ok {
		svc.Messenger().SendEphemeral(message.Chat.ID, "🚫 Only chat admins can do that.")
	}
	return ok
}
