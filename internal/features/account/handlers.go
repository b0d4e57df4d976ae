// Package account — handlers.go обрабатывает команды:
// !баланс (монеты и гемы), !профиль (удача, роллы, заряд буста).
package account

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Handler обрабатывает команды аккаунта.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд аккаунта.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleBalance обрабатывает команду !баланс.
//
// Формат ответа:
//
//	💰 Баланс: 1500 монет | 💎 12 гемов
func (h *Handler) HandleBalance(ctx context.Context, chatID, userID int64) {
	a, err := h.service.GetOrCreate(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения баланса")
		h.sendMessage(chatID, "❌ Ошибка получения баланса")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("💰 Баланс: %s | 💎 %s",
		common.FormatCoins(a.Coins), common.FormatGems(a.Gems)))
}

// HandleProfile обрабатывает команду !профиль — развёрнутая сводка аккаунта.
func (h *Handler) HandleProfile(ctx context.Context, chatID, userID int64) {
	a, err := h.service.GetOrCreate(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения профиля")
		h.sendMessage(chatID, "❌ Ошибка получения профиля")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 Профиль\n")
	fmt.Fprintf(&b, "💰 %s | 💎 %s\n", common.FormatCoins(a.Coins), common.FormatGems(a.Gems))
	fmt.Fprintf(&b, "🍀 Удача: %.1f%%\n", a.Luck*100)
	fmt.Fprintf(&b, "🎲 Роллов всего: %d\n", a.TotalRolls)
	fmt.Fprintf(&b, "⚡ Заряд буста: %d", a.BoostCharge)
	if a.BoostActive {
		fmt.Fprintf(&b, " (буст активен, осталось %d роллов)", a.BoostRollsRemaining)
	}
	b.WriteString("\n")
	if a.RollsLeft > 0 {
		fmt.Fprintf(&b, "🎁 Бонусных роллов: %d\n", a.RollsLeft)
	}
	if a.FragmentUses > 0 {
		fmt.Fprintf(&b, "🧩 Фрагментов фермы: %d\n", a.FragmentUses)
	}
	if a.HasFantasyBook {
		b.WriteString("📖 Книга Фантазий открыта\n")
		for _, r := range items.GatedRarities {
			if p := a.PityFor(r); p > 0 {
				fmt.Fprintf(&b, "   пити %s: %d\n", r, p)
			}
		}
	}
	h.sendMessage(chatID, strings.TrimRight(b.String(), "\n"))
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
