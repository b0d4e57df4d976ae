// handlers.go обрабатывает команды мини-игр:
// !монетка <ставка> <орёл|решка>, !кости <ставка> <1-6>, !статигры.
package games

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/cache"
	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/config"
)

// Действие кулдауна в кэше.
const cooldownAction = "game"

// Handler обрабатывает команды мини-игр.
type Handler struct {
	service   *Service
	cooldowns *cache.Cooldowns
	cfg       *config.Config
	bot       *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик мини-игр.
func NewHandler(service *Service, cooldowns *cache.Cooldowns, cfg *config.Config, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, cooldowns: cooldowns, cfg: cfg, bot: bot}
}

// HandleCoinflip обрабатывает команду !монетка <ставка> <орёл|решка>.
func (h *Handler) HandleCoinflip(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: !монетка <ставка> <орёл|решка>")
		return
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet <= 0 {
		h.sendMessage(chatID, "❌ Ставка должна быть положительным числом")
		return
	}
	pick, ok := parseSide(args[1])
	if !ok {
		h.sendMessage(chatID, "❌ Выбери сторону: орёл или решка")
		return
	}

	if !h.checkCooldown(ctx, chatID, userID) {
		return
	}

	res, err := h.service.Coinflip(ctx, userID, bet, pick)
	if err != nil {
		h.sendMessage(chatID, gameErrorMessage(err))
		return
	}
	h.armCooldown(ctx, userID)

	landed := "решка"
	if res.Landed == SideHeads {
		landed = "орёл"
	}
	if res.Win {
		h.sendMessage(chatID, fmt.Sprintf("🪙 Выпал %s — победа! +%s",
			landed, common.FormatCoins(res.Payout)))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🪙 Выпал %s — мимо. -%s",
		landed, common.FormatCoins(res.Bet)))
}

// HandleDice обрабатывает команду !кости <ставка> <1-6>.
func (h *Handler) HandleDice(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: !кости <ставка> <1-6>")
		return
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet <= 0 {
		h.sendMessage(chatID, "❌ Ставка должна быть положительным числом")
		return
	}
	guess, err := strconv.Atoi(args[1])
	if err != nil || guess < 1 || guess > 6 {
		h.sendMessage(chatID, "❌ Грань должна быть от 1 до 6")
		return
	}

	if !h.checkCooldown(ctx, chatID, userID) {
		return
	}

	res, err := h.service.Dice(ctx, userID, bet, guess)
	if err != nil {
		h.sendMessage(chatID, gameErrorMessage(err))
		return
	}
	h.armCooldown(ctx, userID)

	if res.Win {
		h.sendMessage(chatID, fmt.Sprintf("🎲 Выпало %d — точное попадание! +%s",
			res.Rolled, common.FormatCoins(res.Payout)))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎲 Выпало %d, ты ставил на %d. -%s",
		res.Rolled, res.Guess, common.FormatCoins(res.Bet)))
}

// HandleStats обрабатывает команду !статигры.
func (h *Handler) HandleStats(ctx context.Context, chatID, userID int64) {
	s, err := h.service.Stats(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения статистики игр")
		h.sendMessage(chatID, "❌ Ошибка получения статистики")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf(
		"📊 Игр: %d | Поставлено: %s | Выиграно: %s | Рекорд: %s",
		s.TotalGames,
		common.FormatCoins(s.TotalWagered),
		common.FormatCoins(s.TotalWon),
		common.FormatCoins(s.BiggestWin),
	))
}

func (h *Handler) checkCooldown(ctx context.Context, chatID, userID int64) bool {
	left, err := h.cooldowns.Remaining(ctx, userID, cooldownAction)
	if err != nil {
		log.WithError(err).Warn("Ошибка проверки кулдауна, пропускаем")
		return true
	}
	if left > 0 {
		h.sendMessage(chatID, fmt.Sprintf("⏳ Подожди ещё %.0f сек.", left.Seconds()))
		return false
	}
	return true
}

func (h *Handler) armCooldown(ctx context.Context, userID int64) {
	if err := h.cooldowns.Arm(ctx, userID, cooldownAction, h.cfg.GameCooldown); err != nil {
		log.WithError(err).Warn("Ошибка взведения кулдауна")
	}
}

func parseSide(raw string) (string, bool) {
	switch strings.ToLower(raw) {
	case "орел", "орёл", "heads":
		return SideHeads, true
	case "решка", "tails":
		return SideTails, true
	}
	return "", false
}

func gameErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInsufficientCoins):
		return "❌ Не хватает монет на ставку"
	case errors.Is(err, common.ErrInvalidAmount):
		return "❌ Некорректная ставка"
	}
	log.WithError(err).Error("Ошибка мини-игры")
	return "❌ Ошибка игры"
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
