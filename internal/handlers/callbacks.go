package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// ---------------------------------------------------------------------------
// QueueCallbackHandler – Join / Leave / swap buttons under queue messages
// ---------------------------------------------------------------------------

// QueueCallbackHandler handles the buttons attached to queue messages and
// swap prompts: join, leave and the three stages of a swap negotiation.
type QueueCallbackHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewQueueCallbackHandler creates a new QueueCallbackHandler.
func NewQueueCallbackHandler(svc *service.Service, logger *logrus.Logger) *QueueCallbackHandler {
	return &QueueCallbackHandler{svc: svc, logger: logger}
}

// HandleCallback processes a queue-scope button press.
func (h *QueueCallbackHandler) HandleCallback(bot *telegram.Bot, query *tgbotapi.CallbackQuery, data telegram.CallbackData) error {
	metrics.CallbacksTotal.WithLabelValues(data.Scope, data.Action).Inc()

	ctx := context.Background()
	ac := callbackContext(query)
	fields := logrus.Fields{
		"callback": data.Action,
		"chat_id":  ac.ChatID,
		"user_id":  query.From.ID,
		"queue_id": data.QueueID,
	}

	switch data.Action {
	case "join":
		err := h.svc.Join(ctx, ac, data.QueueID, query.Message.MessageID)
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "leave":
		err := h.svc.Leave(ctx, ac, data.QueueID, query.Message.MessageID)
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "swap":
		return h.handleSwap(ctx, bot, query, data, ac, fields)
	}
	return nil
}

func (h *QueueCallbackHandler) handleSwap(ctx context.Context, bot *telegram.Bot, query *tgbotapi.CallbackQuery, data telegram.CallbackData, ac service.ActionContext, fields logrus.Fields) error {
	switch data.Sub {
	case "request":
		targetID, err := strconv.ParseInt(data.Arg, 10, 64)
		if err != nil {
			h.logger.WithFields(fields).Warnf("Bad swap target id %q", data.Arg)
			return nil
		}
		if _, err := h.svc.Swaps.Request(ctx, ac, data.QueueID, targetID); err != nil {
			return feedback(h.svc, h.logger, ac.ChatID, err, fields)
		}
		// Picker served its purpose; fold the menu message back into
		// the queues list.
		err = h.svc.ShowQueueList(ctx, ac, query.Message.MessageID)
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "accept", "decline":
		err := h.svc.Swaps.Respond(ctx, data.Arg, ac.Actor, data.Sub == "accept")
		if errors.Is(err, models.ErrSwapNotFound) {
			// Stale prompt: the request already expired or was resolved.
			h.svc.Messenger().SendEphemeral(ac.ChatID, "⌛ This swap request is no longer active.")
			bot.DeleteMessage(ac.ChatID, query.Message.MessageID)
			return nil
		}
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)
	}
	return nil
}

// ---------------------------------------------------------------------------
// QueueMenuCallbackHandler – per-queue management menu
// ---------------------------------------------------------------------------

// QueueMenuCallbackHandler handles the per-queue menu reached from the
// queues list: refresh, swap-target picker, delete, back.
type QueueMenuCallbackHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewQueueMenuCallbackHandler creates a new QueueMenuCallbackHandler.
func NewQueueMenuCallbackHandler(svc *service.Service, logger *logrus.Logger) *QueueMenuCallbackHandler {
	return &QueueMenuCallbackHandler{svc: svc, logger: logger}
}

// HandleCallback processes a per-queue menu button press.
func (h *QueueMenuCallbackHandler) HandleCallback(bot *telegram.Bot, query *tgbotapi.CallbackQuery, data telegram.CallbackData) error {
	metrics.CallbacksTotal.WithLabelValues(data.Scope, data.Action).Inc()

	ctx := context.Background()
	ac := callbackContext(query)
	fields := logrus.Fields{
		"callback": data.Action,
		"chat_id":  ac.ChatID,
		"user_id":  query.From.ID,
		"queue_id": data.QueueID,
	}

	switch data.Action {
	case "refresh":
		err := h.svc.RefreshQueue(ctx, ac, data.QueueID, 0)
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "swap":
		q, err := h.svc.Chats.GetQueue(ctx, ac.ChatID, data.QueueID)
		if err != nil {
			return feedback(h.svc, h.logger, ac.ChatID, err, fields)
		}
		text := fmt.Sprintf("↔️ Who do you want to swap places with in `%s`?", q.Name)
		err = bot.EditWithKeyboard(ac.ChatID, query.Message.MessageID, text, telegram.SwapTargetKeyboard(q, query.From.ID))
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "delete":
		if !requireAdminQuery(bot, h.svc, query) {
			return nil
		}
		if err := h.svc.DeleteQueueByID(ctx, ac, data.QueueID); err != nil {
			return feedback(h.svc, h.logger, ac.ChatID, err, fields)
		}
		err := h.svc.ShowQueueList(ctx, ac, query.Message.MessageID)
		if errors.Is(err, models.ErrChatNotFound) {
			// Last queue gone, nothing left to list.
			bot.DeleteMessage(ac.ChatID, query.Message.MessageID)
			return nil
		}
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "back":
		err := h.svc.ShowQueueList(ctx, ac, query.Message.MessageID)
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)
	}
	return nil
}

// ---------------------------------------------------------------------------
// QueuesMenuCallbackHandler – queues-list menu
// ---------------------------------------------------------------------------

// QueuesMenuCallbackHandler handles the queues-list menu: opening a
// queue's management view in place, hiding the list and bulk delete.
type QueuesMenuCallbackHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewQueuesMenuCallbackHandler creates a new QueuesMenuCallbackHandler.
func NewQueuesMenuCallbackHandler(svc *service.Service, logger *logrus.Logger) *QueuesMenuCallbackHandler {
	return &QueuesMenuCallbackHandler{svc: svc, logger: logger}
}

// HandleCallback processes a queues-list menu button press.
func (h *QueuesMenuCallbackHandler) HandleCallback(bot *telegram.Bot, query *tgbotapi.CallbackQuery, data telegram.CallbackData) error {
	metrics.CallbacksTotal.WithLabelValues(data.Scope, data.Action).Inc()

	ctx := context.Background()
	ac := callbackContext(query)
	fields := logrus.Fields{
		"callback": data.Action,
		"chat_id":  ac.ChatID,
		"user_id":  query.From.ID,
		"queue_id": data.QueueID,
	}

	switch data.Action {
	case "get":
		q, err := h.svc.Chats.GetQueue(ctx, ac.ChatID, data.QueueID)
		if err != nil {
			return feedback(h.svc, h.logger, ac.ChatID, err, fields)
		}
		// The list message morphs into the queue view; the queue's own
		// message keeps its id and stays untouched.
		err = bot.EditWithKeyboard(ac.ChatID, query.Message.MessageID, telegram.RenderQueue(q), telegram.QueueMenuKeyboard(q.ID))
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "hide":
		err := h.svc.HideQueueList(ctx, ac)
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)

	case "delete":
		if !requireAdminQuery(bot, h.svc, query) {
			return nil
		}
		var err error
		if data.QueueID == telegram.AllQueues {
			err = h.svc.DeleteAllQueues(ctx, ac)
		} else {
			err = h.svc.DeleteQueueByID(ctx, ac, data.QueueID)
		}
		return feedback(h.svc, h.logger, ac.ChatID, err, fields)
	}
	return nil
}
