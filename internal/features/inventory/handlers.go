// Package inventory — handlers.go обрабатывает команду !инвентарь.
package inventory

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Handler обрабатывает команды инвентаря.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд инвентаря.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleInventory обрабатывает команду !инвентарь.
// Фумо показываются через Ref.Display, расходники — своим именем.
func (h *Handler) HandleInventory(ctx context.Context, chatID, userID int64) {
	entries, err := h.service.List(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения инвентаря")
		h.sendMessage(chatID, "❌ Ошибка получения инвентаря")
		return
	}
	if len(entries) == 0 {
		h.sendMessage(chatID, "🎒 Инвентарь пуст. Попробуй !ролл")
		return
	}

	var b strings.Builder
	b.WriteString("🎒 Инвентарь:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "• %s ×%d\n", displayKey(e.ItemKey), e.Quantity)
	}
	h.sendMessage(chatID, strings.TrimRight(b.String(), "\n"))
}

// displayKey переводит ключ хранилища в человекочитаемое имя.
func displayKey(itemKey string) string {
	if ref, err := items.ParseRef(itemKey); err == nil {
		return ref.Display()
	}
	if cons := items.FindConsumable(itemKey); cons != nil {
		return cons.Display
	}
	return itemKey
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
