package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// resolveQueueArgs loads the chat and splits the arguments into a queue
// name (longest-prefix match) and the remaining tokens.
func resolveQueueArgs(ctx context.Context, svc *service.Service, chatID int64, args []string) (string, []string, error) {
	chat, err := svc.Chats.GetChat(ctx, chatID)
	if err != nil {
		return "", nil, err
	}
	name, rest, ok := matchQueueName(chat.QueueNames(), args)
	if !ok {
		return "", nil, models.ErrQueueNotFound
	}
	return name, rest, nil
}

// ---------------------------------------------------------------------------
// InsertHandler – /insert <queue> <user> [pos]
// ---------------------------------------------------------------------------

// InsertHandler handles the /insert command to place a participant by
// display name, optionally at a 1-based position. Admin-gated.
type InsertHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewInsertHandler creates a new InsertHandler.
func NewInsertHandler(svc *service.Service, logger *logrus.Logger) *InsertHandler {
	return &InsertHandler{svc: svc, logger: logger}
}

// Handle processes the /insert command.
func (h *InsertHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("insert").Inc()

	if len(args) < 2 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide a queue and a participant.\nUsage: `/insert Dutystart Alice 2`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ctx := context.Background()
	ac := contextFrom(message)
	fields := logrus.Fields{
		"command": "insert",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}

	queueName, rest, err := resolveQueueArgs(ctx, h.svc, message.Chat.ID, args)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
	}

	position, nameArgs := trailingInt(rest)
	if len(nameArgs) == 0 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID, "❌ Please provide the participant's name.")
		return nil
	}

	err = h.svc.InsertMember(ctx, ac, queueName, strings.Join(nameArgs, " "), position)
	return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
}

// ---------------------------------------------------------------------------
// RemoveHandler – /remove <queue> <user|pos>
// ---------------------------------------------------------------------------

// RemoveHandler handles the /remove command; the target is a display
// name or a 1-based position. Admin-gated.
type RemoveHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewRemoveHandler creates a new RemoveHandler.
func NewRemoveHandler(svc *service.Service, logger *logrus.Logger) *RemoveHandler {
	return &RemoveHandler{svc: svc, logger: logger}
}

// Handle processes the /remove command.
func (h *RemoveHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("remove").Inc()

	if len(args) < 2 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide a queue and a participant or position.\nUsage: `/remove Dutystart 2`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ctx := context.Background()
	ac := contextFrom(message)
	fields := logrus.Fields{
		"command": "remove",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}

	queueName, rest, err := resolveQueueArgs(ctx, h.svc, message.Chat.ID, args)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
	}
	if len(rest) == 0 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID, "❌ Please provide the participant or position.")
		return nil
	}

	err = h.svc.RemoveMember(ctx, ac, queueName, strings.Join(rest, " "))
	return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
}

// ---------------------------------------------------------------------------
// ReplaceHandler – /replace <queue> <p1> <p2 | u1 u2>
// ---------------------------------------------------------------------------

// ReplaceHandler handles the /replace command to swap two members, by a
// pair of 1-based positions or a pair of display names. Admin-gated.
type ReplaceHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewReplaceHandler creates a new ReplaceHandler.
func NewReplaceHandler(svc *service.Service, logger *logrus.Logger) *ReplaceHandler {
	return &ReplaceHandler{svc: svc, logger: logger}
}

// Handle processes the /replace command.
func (h *ReplaceHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	metrics.CommandsTotal.WithLabelValues("replace").Inc()

	if len(args) < 3 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide a queue and two positions or names.\nUsage: `/replace Dutystart 1 3`")
		return nil
	}
	if !requireAdmin(bot, h.svc, message) {
		return nil
	}

	ctx := context.Background()
	ac := contextFrom(message)
	fields := logrus.Fields{
		"command": "replace",
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}

	queueName, rest, err := resolveQueueArgs(ctx, h.svc, message.Chat.ID, args)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
	}
	if len(rest) != 2 {
		h.svc.Messenger().SendEphemeral(message.Chat.ID,
			"❌ Please provide exactly two positions or names.")
		return nil
	}

	err = h.svc.Replace(ctx, ac, queueName, rest[0], rest[1])
	return feedback(h.svc, h.logger, message.Chat.ID, err, fields)
}
