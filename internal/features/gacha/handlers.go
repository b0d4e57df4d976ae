// Package gacha — handlers.go обрабатывает команды:
// !ролл (сделать ролл), !буст (включить буст-режим).
package gacha

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/cache"
	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/config"
	"fumoworld.ru/fumo-bot/internal/features/boosts"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Действие кулдауна в кэше.
const cooldownAction = "roll"

// Handler обрабатывает гача-команды.
type Handler struct {
	service      *Service
	boostService *boosts.Service
	cooldowns    *cache.Cooldowns
	cfg          *config.Config
	bot          *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик гача-команд.
func NewHandler(service *Service, boostService *boosts.Service, cooldowns *cache.Cooldowns, cfg *config.Config, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:      service,
		boostService: boostService,
		cooldowns:    cooldowns,
		cfg:          cfg,
		bot:          bot,
	}
}

// HandleRoll обрабатывает команду !ролл.
//
// Формат ответа:
//
//	🎲 Выпало: ✨Flandre (LEGENDARY)
func (h *Handler) HandleRoll(ctx context.Context, chatID, userID int64) {
	left, err := h.cooldowns.Remaining(ctx, userID, cooldownAction)
	if err != nil {
		log.WithError(err).Warn("Ошибка проверки кулдауна, пропускаем")
	} else if left > 0 {
		h.sendMessage(chatID, fmt.Sprintf("⏳ Подожди ещё %.0f сек.", left.Seconds()))
		return
	}

	res, err := h.service.Roll(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrInsufficientCoins) {
			h.sendMessage(chatID, fmt.Sprintf("❌ Ролл стоит %s", common.FormatCoins(h.cfg.GachaRollPrice)))
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка ролла")
		h.sendMessage(chatID, "❌ Ошибка ролла, попробуй ещё раз")
		return
	}

	if err := h.cooldowns.Arm(ctx, userID, cooldownAction, h.rollCooldown(ctx, userID)); err != nil {
		log.WithError(err).Warn("Ошибка взведения кулдауна")
	}

	h.sendMessage(chatID, rollMessage(res))
}

// HandleBoost обрабатывает команду !буст — включает буст-режим
// при полном заряде.
func (h *Handler) HandleBoost(ctx context.Context, chatID, userID int64) {
	err := h.service.ActivateBoost(ctx, userID)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("⚡ Буст включён на %d роллов!", h.cfg.GachaBoostRolls))
	case errors.Is(err, common.ErrBoostAlreadyActive):
		h.sendMessage(chatID, "⚡ Буст уже активен")
	case errors.Is(err, common.ErrBoostChargeLow):
		h.sendMessage(chatID, fmt.Sprintf("❌ Нужен полный заряд (%d)", h.cfg.GachaChargeFull))
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка включения буста")
		h.sendMessage(chatID, "❌ Ошибка включения буста")
	}
}

// rollCooldown возвращает кулдаун ролла с учётом бустов-делителей.
func (h *Handler) rollCooldown(ctx context.Context, userID int64) time.Duration {
	cd := h.cfg.RollCooldown
	div, err := h.boostService.ComposeMultiplier(ctx, userID, boosts.TypeSummonCooldown, boosts.TypeSummonSpeed)
	if err != nil {
		log.WithError(err).Warn("Ошибка композиции бустов кулдауна")
		return cd
	}
	if div > 1.0 {
		cd = time.Duration(float64(cd) / div)
	}
	return cd
}

// rollMessage собирает текст ответа на ролл.
func rollMessage(res *RollResult) string {
	var b strings.Builder
	b.WriteString("🎲 Выпало: ")
	b.WriteString(res.Ref.Display())

	var notes []string
	if res.Forced {
		notes = append(notes, "гарант")
	}
	if res.Override {
		notes = append(notes, "Сфера редкости")
	}
	if res.Boosted {
		notes = append(notes, "буст ×25")
	}
	if res.BonusRoll {
		notes = append(notes, "бонусный ролл")
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(notes, ", "))
	}
	if items.Rarer(res.Ref.Rarity, items.RarityEpic) {
		b.WriteString(" 🎉")
	}
	if res.BoostEnded {
		b.WriteString("\n⚡ Буст-режим закончился")
	}
	return b.String()
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
