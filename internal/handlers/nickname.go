package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// NicknameHandler handles /nickname (per-chat) and /nickname_global
// display name overrides. No argument clears the override.
type NicknameHandler struct {
	svc    *service.Service
	logger *logrus.Logger
	global bool
}

// NewNicknameHandler creates the per-chat nickname handler.
func NewNicknameHandler(svc *service.Service, logger *logrus.Logger) *NicknameHandler {
	return &NicknameHandler{svc: svc, logger: logger}
}

// NewGlobalNicknameHandler creates the cross-chat nickname handler.
func NewGlobalNicknameHandler(svc *service.Service, logger *logrus.Logger) *NicknameHandler {
	return &NicknameHandler{svc: svc, logger: logger, global: true}
}

// Handle processes the nickname command.
func (h *NicknameHandler) Handle(bot *telegram.Bot, message *tgbotapi.Message, args []string) error {
	command := "nickname"
	if h.global {
		command = "nickname_global"
	}
	metrics.CommandsTotal.WithLabelValues(command).Inc()

	ctx := context.Background()
	ac := contextFrom(message)
	name := strings.Join(args, " ")

	var err error
	if h.global {
		err = h.svc.SetGlobalNickname(ctx, ac, name)
	} else {
		err = h.svc.SetNickname(ctx, ac, name)
	}
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		})
	}

	resolved, err := h.svc.ResolveDisplayName(ctx, ac.Actor, ac.ChatID)
	if err != nil {
		return feedback(h.svc, h.logger, message.Chat.ID, err, logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
		})
	}
	h.svc.Messenger().SendEphemeral(message.Chat.ID,
		fmt.Sprintf("✏️ You will be shown as *%s*.", resolved))
	return nil
}
