// handlers.go обрабатывает команды квестов: !квесты, !награда <квест>.
package quests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
)

// Handler обрабатывает команды квестов.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд квестов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleQuests обрабатывает команду !квесты — прогресс за сегодня.
func (h *Handler) HandleQuests(ctx context.Context, chatID, userID int64) {
	rows, err := h.service.Today(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения квестов")
		h.sendMessage(chatID, "❌ Ошибка получения квестов")
		return
	}

	progress := make(map[string]*Progress, len(rows))
	for _, p := range rows {
		progress[p.QuestID] = p
	}

	var b strings.Builder
	b.WriteString("📜 Квесты на сегодня:\n")
	for _, q := range All {
		var value int64
		rewarded := false
		if p, ok := progress[q.ID]; ok {
			value = p.Value
			rewarded = p.Rewarded
		}
		fmt.Fprintf(&b, "• %s: %d/%d", q.Title, value, q.Ceiling)
		switch {
		case rewarded:
			b.WriteString(" ✅")
		case value >= q.Ceiling:
			fmt.Fprintf(&b, " — готово! !награда %s", q.ID)
		}
		b.WriteString("\n")
	}
	h.sendMessage(chatID, strings.TrimRight(b.String(), "\n"))
}

// HandleClaim обрабатывает команду !награда <квест>.
func (h *Handler) HandleClaim(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: !награда <квест> (id из !квесты)")
		return
	}

	reward, err := h.service.ClaimReward(ctx, userID, strings.ToLower(args[0]))
	switch {
	case err == nil && reward > 0:
		h.sendMessage(chatID, fmt.Sprintf("🎁 Награда получена: %s", common.FormatCoins(reward)))
	case err == nil:
		h.sendMessage(chatID, "❌ Награда ещё не готова или уже получена")
	case errors.Is(err, common.ErrItemNotFound):
		h.sendMessage(chatID, "❌ Нет такого квеста")
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка выдачи награды")
		h.sendMessage(chatID, "❌ Ошибка выдачи награды")
	}
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
