// handlers.go обрабатывает команду !использовать <предмет>.
package usage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Handler обрабатывает применение расходников.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик применения расходников.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleUse обрабатывает команду !использовать <предмет>.
// Предмет ищется по ключу или по русскому названию из магазина.
func (h *Handler) HandleUse(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: !использовать <предмет>")
		return
	}
	itemKey := resolveKey(strings.Join(args, " "))

	cons, err := h.service.Use(ctx, userID, itemKey)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("✨ %s применён", cons.Display))
	case errors.Is(err, common.ErrItemNotUsable):
		h.sendMessage(chatID, "❌ Этот предмет нельзя применить")
	case errors.Is(err, common.ErrNotInInventory):
		h.sendMessage(chatID, "❌ Этого предмета нет в инвентаре")
	case errors.Is(err, common.ErrFragmentsMaxed):
		h.sendMessage(chatID, "❌ Фрагменты фермы на максимуме")
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка применения предмета")
		h.sendMessage(chatID, "❌ Ошибка применения предмета")
	}
}

// resolveKey принимает и ключ (LuckPotion), и русское название
// («зелье удачи») — как их показывает магазин.
func resolveKey(raw string) string {
	if items.FindConsumable(raw) != nil {
		return raw
	}
	lower := strings.ToLower(raw)
	for i := range items.ConsumablePool {
		c := &items.ConsumablePool[i]
		if strings.ToLower(c.Name) == lower || strings.ToLower(c.Display) == lower {
			return c.Name
		}
	}
	return raw
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
