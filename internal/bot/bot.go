// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики фич и запускает polling.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/bot/confirm"
	"fumoworld.ru/fumo-bot/internal/bot/filters"
	"fumoworld.ru/fumo-bot/internal/bot/middleware"
	"fumoworld.ru/fumo-bot/internal/config"
	"fumoworld.ru/fumo-bot/internal/features/account"
	"fumoworld.ru/fumo-bot/internal/features/farming"
	"fumoworld.ru/fumo-bot/internal/features/gacha"
	"fumoworld.ru/fumo-bot/internal/features/games"
	"fumoworld.ru/fumo-bot/internal/features/inventory"
	"fumoworld.ru/fumo-bot/internal/features/market"
	"fumoworld.ru/fumo-bot/internal/features/quests"
	"fumoworld.ru/fumo-bot/internal/features/usage"
)

const helpText = `🧸 Фумо-бот. Команды:
!ролл — сделать ролл (платный)
!буст — включить буст-режим при полном заряде
!баланс, !профиль — аккаунт
!инвентарь — что накопилось
!рынок, !магазин — персональные каталоги (обновляются каждый час)
!купить <номер> [кол-во], !продать <фумо> [кол-во]
!фармить <фумо> [кол-во], !стоп <фумо>, !ферма
!использовать <предмет> — применить расходник
!монетка <ставка> <орёл|решка>, !кости <ставка> <1-6>, !статигры
!квесты, !награда <квест>`

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	accessGate  *filters.AccessGate
	rateLimiter *middleware.RateLimiter
	confirms    *confirm.Registry

	accountHandler   *account.Handler
	gachaHandler     *gacha.Handler
	inventoryHandler *inventory.Handler
	marketHandler    *market.Handler
	farmingHandler   *farming.Handler
	usageHandler     *usage.Handler
	gamesHandler     *games.Handler
	questsHandler    *quests.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	accessGate *filters.AccessGate,
	confirms *confirm.Registry,
	accountHandler *account.Handler,
	gachaHandler *gacha.Handler,
	inventoryHandler *inventory.Handler,
	marketHandler *market.Handler,
	farmingHandler *farming.Handler,
	usageHandler *usage.Handler,
	gamesHandler *games.Handler,
	questsHandler *quests.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:              api,
		cfg:              cfg,
		accessGate:       accessGate,
		rateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		confirms:         confirms,
		accountHandler:   accountHandler,
		gachaHandler:     gachaHandler,
		inventoryHandler: inventoryHandler,
		marketHandler:    marketHandler,
		farmingHandler:   farmingHandler,
		usageHandler:     usageHandler,
		gamesHandler:     gamesHandler,
		questsHandler:    questsHandler,
		parser:           NewCommandParser(),
		inflight:         make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message

	middleware.LogMessage(message)

	// Единая точка доступа: техработы и бан-лист
	if err := b.accessGate.Check(message); err != nil {
		if text := filters.DenyMessage(err); text != "" {
			b.sendMessage(message.Chat.ID, text)
		}
		return
	}

	// Rate limiting
	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	// Ответ «да/нет» на висящее подтверждение
	if handled, _ := b.confirms.Resolve(ctx, userID, message.Text); handled {
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	log.WithFields(log.Fields{
		"cmd":     cmd,
		"args":    args,
		"user_id": userID,
	}).Debug("routing command")

	b.routeCommand(ctx, chatID, userID, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(chatID, helpText)

	case "ролл", "roll":
		b.gachaHandler.HandleRoll(ctx, chatID, userID)

	case "буст", "boost":
		b.gachaHandler.HandleBoost(ctx, chatID, userID)

	case "баланс", "balance":
		b.accountHandler.HandleBalance(ctx, chatID, userID)

	case "профиль", "profile":
		b.accountHandler.HandleProfile(ctx, chatID, userID)

	case "инвентарь", "inv":
		b.inventoryHandler.HandleInventory(ctx, chatID, userID)

	case "рынок", "market":
		if b.requireFeature(chatID, b.cfg.FeatureMarketEnabled, "рынок") {
			b.marketHandler.HandleMarket(ctx, chatID, userID)
		}

	case "магазин", "shop":
		if b.requireFeature(chatID, b.cfg.FeatureMarketEnabled, "магазин") {
			b.marketHandler.HandleShop(ctx, chatID, userID)
		}

	case "купить", "buy":
		if b.requireFeature(chatID, b.cfg.FeatureMarketEnabled, "рынок") {
			b.marketHandler.HandleBuy(ctx, chatID, userID, args)
		}

	case "продать", "sell":
		if b.requireFeature(chatID, b.cfg.FeatureMarketEnabled, "рынок") {
			b.marketHandler.HandleSell(ctx, chatID, userID, args)
		}

	case "ферма", "farm":
		if b.requireFeature(chatID, b.cfg.FeatureFarmingEnabled, "ферма") {
			b.farmingHandler.HandleFarm(ctx, chatID, userID)
		}

	case "фармить":
		if b.requireFeature(chatID, b.cfg.FeatureFarmingEnabled, "ферма") {
			b.farmingHandler.HandleStart(ctx, chatID, userID, args)
		}

	case "стоп":
		if b.requireFeature(chatID, b.cfg.FeatureFarmingEnabled, "ферма") {
			b.farmingHandler.HandleStop(ctx, chatID, userID, args)
		}

	case "использовать", "use":
		b.usageHandler.HandleUse(ctx, chatID, userID, args)

	case "монетка", "coinflip":
		if b.requireFeature(chatID, b.cfg.FeatureGamesEnabled, "мини-игры") {
			b.gamesHandler.HandleCoinflip(ctx, chatID, userID, args)
		}

	case "кости", "dice":
		if b.requireFeature(chatID, b.cfg.FeatureGamesEnabled, "мини-игры") {
			b.gamesHandler.HandleDice(ctx, chatID, userID, args)
		}

	case "статигры":
		if b.requireFeature(chatID, b.cfg.FeatureGamesEnabled, "мини-игры") {
			b.gamesHandler.HandleStats(ctx, chatID, userID)
		}

	case "квесты", "quests":
		b.questsHandler.HandleQuests(ctx, chatID, userID)

	case "награда", "claim":
		b.questsHandler.HandleClaim(ctx, chatID, userID, args)
	}
}

// requireFeature отвечает отказом, если фича выключена конфигом.
func (b *Bot) requireFeature(chatID int64, enabled bool, name string) bool {
	if !enabled {
		b.sendMessage(chatID, "🔒 Фича «"+name+"» временно отключена")
	}
	return enabled
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// CommandParser парсит команды с префиксами !, . и /
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	// Телеграм дописывает @botname к командам в группах
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}
