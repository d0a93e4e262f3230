package telegram

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/QueueboT/internal/models"
)

// Rendering is a pure function of the queue state. Markdown escaping
// happens here and nowhere else.

const emptyQueueLine = "_Queue is empty. Press Join to be first!_"

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderQueue builds the display text for a queue: optional description,
// monospace name heading, then the numbered member list.
func RenderQueue(q *models.Queue) string {
	var sb strings.Builder
	if q.Description != "" {
		sb.WriteString(escapeMarkdown(q.Description))
		sb.WriteString("\n\n")
	}
	sb.WriteString("`")
	sb.WriteString(q.Name)
	sb.WriteString("`\n")

	if len(q.Members) == 0 {
		sb.WriteString(emptyQueueLine)
		return sb.String()
	}
	for i, m := range q.Members {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escapeMarkdown(m.DisplayName)))
	}
	return sb.String()
}

// RenderQueueList builds the text for the queues-list menu.
func RenderQueueList(chat *models.Chat) string {
	var sb strings.Builder
	sb.WriteString("📋 *Queues in this chat*\n\n")
	names := chat.QueueNames()
	sort.Strings(names)
	for i, name := range names {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escapeMarkdown(name)))
	}
	return sb.String()
}

// RenderSwapPrompt builds the confirmation text addressed to the swap target.
func RenderSwapPrompt(q *models.Queue, requesterName, targetName string) string {
	return fmt.Sprintf("🔄 *%s*, do you agree to swap places with *%s* in `%s`?",
		escapeMarkdown(targetName), escapeMarkdown(requesterName), q.Name)
}

// QueueKeyboard is the default keyboard under a queue message.
func QueueKeyboard(queueID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Join", joinCallback(queueID)),
			tgbotapi.NewInlineKeyboardButtonData("Leave", leaveCallback(queueID)),
		),
	)
}

// QueueMenuKeyboard is the per-queue management menu.
func QueueMenuKeyboard(queueID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", queueMenuCallback(queueID, "refresh")),
			tgbotapi.NewInlineKeyboardButtonData("↔️ Swap", queueMenuCallback(queueID, "swap")),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", queueMenuCallback(queueID, "delete")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", queueMenuCallback(queueID, "back")),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Hide", queuesMenuCallback(AllQueues, "hide")),
		),
	)
}

// SwapTargetKeyboard lists every other member with a known user id as a
// swap target, plus Back and Hide.
func SwapTargetKeyboard(q *models.Queue, requesterID int64) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range q.Members {
		if m.UserID == nil || *m.UserID == requesterID {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(m.DisplayName, swapRequestCallback(q.ID, *m.UserID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", queueMenuCallback(q.ID, "back")),
		tgbotapi.NewInlineKeyboardButtonData("✖️ Hide", queuesMenuCallback(AllQueues, "hide")),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SwapConfirmKeyboard is the Yes/No keyboard under a swap prompt.
func SwapConfirmKeyboard(queueID, swapID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", swapAcceptCallback(queueID, swapID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", swapDeclineCallback(queueID, swapID)),
		),
	)
}

// QueueListKeyboard is the queues-list menu: one button per queue plus Hide.
func QueueListKeyboard(chat *models.Chat) tgbotapi.InlineKeyboardMarkup {
	queues := make([]*models.Queue, 0, len(chat.Queues))
	for _, q := range chat.Queues {
		queues = append(queues, q)
	}
	sort.Slice(queues, func(i, j int) bool { return queues[i].Name < queues[j].Name })

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, q := range queues {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(q.Name, queuesMenuCallback(q.ID, "get")),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ Hide", queuesMenuCallback(AllQueues, "hide")),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
