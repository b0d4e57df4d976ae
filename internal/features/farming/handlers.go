// handlers.go обрабатывает команды фермы:
// !ферма (список), !фармить <фумо> [кол-во], !стоп <фумо> [кол-во].
package farming

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Handler обрабатывает команды фермы.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд фермы.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleFarm обрабатывает команду !ферма — список работающих слотов.
func (h *Handler) HandleFarm(ctx context.Context, chatID, userID int64) {
	slots, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения фермы")
		h.sendMessage(chatID, "❌ Ошибка получения фермы")
		return
	}
	if len(slots) == 0 {
		h.sendMessage(chatID, "🌱 Ферма пуста. Поставь фумо: !фармить Name(RARITY)")
		return
	}

	var b strings.Builder
	b.WriteString("🌱 Ферма:\n")
	for _, s := range slots {
		name := s.ItemKey
		if ref, err := items.ParseRef(s.ItemKey); err == nil {
			name = ref.Display()
		}
		fmt.Fprintf(&b, "• %s ×%d — %d монет/мин", name, s.Quantity, s.CoinsPerMin*s.Quantity)
		if s.GemsPerMin > 0 {
			fmt.Fprintf(&b, ", %d гем/мин", s.GemsPerMin*s.Quantity)
		}
		b.WriteString("\n")
	}
	h.sendMessage(chatID, strings.TrimRight(b.String(), "\n"))
}

// HandleStart обрабатывает команду !фармить <фумо> [кол-во].
func (h *Handler) HandleStart(ctx context.Context, chatID, userID int64, args []string) {
	ref, qty, ok := parseFarmArgs(args)
	if !ok {
		h.sendMessage(chatID, "❌ Формат: !фармить Name(RARITY) [кол-во]")
		return
	}

	err := h.service.StartFarm(ctx, userID, ref, qty)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("🌱 %s ×%d поставлен на ферму", ref.Display(), qty))
	case errors.Is(err, common.ErrNotInInventory):
		h.sendMessage(chatID, "❌ Этого фумо нет в инвентаре (или не хватает количества)")
	case errors.Is(err, common.ErrFarmSlotsFull):
		h.sendMessage(chatID, "❌ Все слоты фермы заняты. Фрагмент фермы добавит слот")
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка запуска фермы")
		h.sendMessage(chatID, "❌ Ошибка запуска фермы")
	}
}

// HandleStop обрабатывает команду !стоп <фумо> [кол-во].
// Без количества слот снимается целиком.
func (h *Handler) HandleStop(ctx context.Context, chatID, userID int64, args []string) {
	ref, qty, ok := parseFarmArgs(args)
	if !ok {
		h.sendMessage(chatID, "❌ Формат: !стоп Name(RARITY) [кол-во]")
		return
	}

	var err error
	if len(args) >= 2 {
		err = h.service.StopQuantity(ctx, userID, ref, qty)
	} else {
		err = h.service.EndFarm(ctx, userID, ref)
	}
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("🛑 %s снят с фермы", ref.Display()))
	case errors.Is(err, common.ErrFarmNotRunning):
		h.sendMessage(chatID, "❌ Это фумо сейчас не фармит")
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка остановки фермы")
		h.sendMessage(chatID, "❌ Ошибка остановки фермы")
	}
}

// parseFarmArgs разбирает «Name(RARITY) [кол-во]».
func parseFarmArgs(args []string) (items.Ref, int64, bool) {
	if len(args) < 1 {
		return items.Ref{}, 0, false
	}
	qty := int64(1)
	refRaw := strings.Join(args, " ")
	if len(args) >= 2 {
		if n, err := strconv.ParseInt(args[len(args)-1], 10, 64); err == nil && n > 0 {
			qty = n
			refRaw = strings.Join(args[:len(args)-1], " ")
		}
	}
	ref, err := items.ParseRef(refRaw)
	if err != nil {
		return items.Ref{}, 0, false
	}
	return ref, qty, true
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
