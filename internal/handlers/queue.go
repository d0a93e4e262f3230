package handlers

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// ---------------------------------------------------------------------------
// CreateHandler – /create [name] [-h hours]
// ---------------------------------------------------------------------------

// CreateHandler handles the /create command to create a queue with an
// optional name and lifetime.
type CreateHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(svc *service.Service, logger *logrus.Logger) *CreateHandler {
	return &CreateHandler{svc: svc, logger: logger}
}

// Handle processes the /create command.
func (h *CreateHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("create").Inc()

	name, ttl, ok := parseCreateArgs(args)
	if !ok {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Hours must be a positive integer.\nUsage: `/create Dutystart -h 12`")
		return nil
	}

	ac := contextFrom(message)
	err := h.svc.CreateQueue(context.Background(), ac, name, ttl)
	return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
		"command": "create",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	})
}

// ---------------------------------------------------------------------------
// QueuesHandler – /queues
// ---------------------------------------------------------------------------

// QueuesHandler handles the /queues command to open the queues-list menu.
type QueuesHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewQueuesHandler creates a new QueuesHandler.
func NewQueuesHandler(svc *service.Service, logger *logrus.Logger) *QueuesHandler {
	return &QueuesHandler{svc: svc, logger: logger}
}

// Handle processes the /queues command.
func (h *QueuesHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("queues").Inc()

	ac := contextFrom(message)
	err := h.svc.ShowQueueList(context.Background(), ac, 0)
	return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
		"command": "queues",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	})
}

// ---------------------------------------------------------------------------
// DeleteHandler – /delete <name>
// ---------------------------------------------------------------------------

// DeleteHandler handles the /delete command to remove one queue.
// Admin-gated in group chats.
type DeleteHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteHandler creates a new DeleteHandler.
func NewDeleteHandler(svc *service.Service, logger *logrus.Logger) *DeleteHandler {
	return &DeleteHandler{svc: svc, logger: logger}
}

// Handle processes the /delete command.
func (h *DeleteHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("delete").Inc()

	if len(args) == 0 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide a queue name.\nUsage: `/delete Dutystart`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ac := contextFrom(message)
	err := h.svc.DeleteQueueByName(context.Background(), ac, strings.Join(args, " "))
	return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
		"command": "delete",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	})
}

// ---------------------------------------------------------------------------
// DeleteAllHandler – /delete_all
// ---------------------------------------------------------------------------

// DeleteAllHandler handles the /delete_all command. Admin-gated.
type DeleteAllHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteAllHandler creates a new DeleteAllHandler.
func NewDeleteAllHandler(svc *service.Service, logger *logrus.Logger) *DeleteAllHandler {
	return &DeleteAllHandler{svc: svc, logger: logger}
}

// Handle processes the /delete_all command.
func (h *DeleteAllHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("delete_all").Inc()

	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ac := contextFrom(message)
	err := h.svc.DeleteAllQueues(context.Background(), ac)
	return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
		"command": "delete_all",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	})
}

// ---------------------------------------------------------------------------
// RenameHandler – /rename <old> <new>
// ---------------------------------------------------------------------------

// RenameHandler handles the /rename command. The old name is resolved by
// longest-prefix match against existing queues, so names with spaces
// work. Admin-gated.
type RenameHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewRenameHandler creates a new RenameHandler.
func NewRenameHandler(svc *service.Service, logger *logrus.Logger) *RenameHandler {
	return &RenameHandler{svc: svc, logger: logger}
}

// Handle processes the /rename command.
func (h *RenameHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("rename").Inc()

	if len(args) < 2 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide old and new names.\nUsage: `/rename Dutystart Standup`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ctx := context.Background()
	ac := contextFrom(message)

	oldName, rest, err := h.resolve(ctx, message.Chat.ID, args)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
			"command": "rename", "chat_id": message.Chat.ID,
		})
	}
	if len(rest) == 0 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID, "❌ Please provide the new name.")
		return nil
	}

	err = h.svc.Rename(ctx, ac, oldName, strings.Join(rest, " "))
	return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
		"command": "rename",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	})
}

func (h *RenameHandler) resolve(ctx context.Context, chatID int64, args []string) (string, []string, error) {
	chat, err := h.svc.Chats.GetChat(ctx, chatID)
	if err != nil {
		return "", nil, err
	}
	name, rest, ok := matchQueueName(chat.QueueNames(), args)
	if !ok {
		// Fall back to the first token so the service reports not-found.
		return args[0], args[1:], nil
	}
	return name, rest, nil
}

// ---------------------------------------------------------------------------
// SetDescriptionHandler – /set_description <queue> [text]
// ---------------------------------------------------------------------------

// SetDescriptionHandler handles the /set_description command; an empty
// text clears the description. Admin-gated.
type SetDescriptionHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSetDescriptionHandler creates a new SetDescriptionHandler.
func NewSetDescriptionHandler(svc *service.Service, logger *logrus.Logger) *SetDescriptionHandler {
	return &SetDescriptionHandler{svc: svc, logger: logger}
}

// Handle processes the /set_description command.
func (h *SetDescriptionHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("set_description").Inc()

	if len(args) == 0 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide a queue name.\nUsage: `/set_description Dutystart Daily rotation`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ctx := context.Background()
	ac := contextFrom(message)
	fields := logrus.Fields{
		"command": "set_description",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}

	chat, err := h.svc.Chats.GetChat(ctx, message.Chat.ID)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
	}
	queueName, rest, ok := matchQueueName(chat.QueueNames(), args)
	if !ok {
		queueName, rest = args[0], args[1:]
	}

	err = h.svc.SetDescription(ctx, ac, queueName, strings.Join(rest, " "))
	return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
}

// ---------------------------------------------------------------------------
// SetExpireTimeHandler – /set_expire_time <queue> <hours>
// ---------------------------------------------------------------------------

// SetExpireTimeHandler handles the /set_expire_time command. Admin-gated.
type SetExpireTimeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSetExpireTimeHandler creates a new SetExpireTimeHandler.
func NewSetExpireTimeHandler(svc *service.Service, logger *logrus.Logger) *SetExpireTimeHandler {
	return &SetExpireTimeHandler{svc: svc, logger: logger}
}

// Handle processes the /set_expire_time command.
func (h *SetExpireTimeHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("set_expire_time").Inc()

	hours, nameArgs := trailingInt(args)
	if hours == nil || *hours <= 0 || len(nameArgs) == 0 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide a queue name and a positive number of hours.\nUsage: `/set_expire_time Dutystart 12`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ctx := context.Background()
	ac := contextFrom(message)
	fields := logrus.Fields{
		"command": "set_expire_time",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}

	chat, err := h.svc.Chats.GetChat(ctx, message.Chat.ID)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
	}
	queueName, _, ok := matchQueueName(chat.QueueNames(), nameArgs)
	if !ok {
		queueName = strings.Join(nameArgs, " ")
	}

	err = h.svc.SetExpireTime(ctx, ac, queueName, time.Duration(*hours)*time.Hour)
	return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
}
