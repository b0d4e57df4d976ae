// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект App.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/bot"
	"fumoworld.ru/fumo-bot/internal/bot/confirm"
	"fumoworld.ru/fumo-bot/internal/bot/filters"
	"fumoworld.ru/fumo-bot/internal/cache"
	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/config"
	"fumoworld.ru/fumo-bot/internal/db/postgres"
	"fumoworld.ru/fumo-bot/internal/features/account"
	"fumoworld.ru/fumo-bot/internal/features/batcher"
	"fumoworld.ru/fumo-bot/internal/features/boosts"
	"fumoworld.ru/fumo-bot/internal/features/farming"
	"fumoworld.ru/fumo-bot/internal/features/gacha"
	"fumoworld.ru/fumo-bot/internal/features/games"
	"fumoworld.ru/fumo-bot/internal/features/inventory"
	"fumoworld.ru/fumo-bot/internal/features/market"
	"fumoworld.ru/fumo-bot/internal/features/quests"
	"fumoworld.ru/fumo-bot/internal/features/usage"
	"fumoworld.ru/fumo-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Batcher   *batcher.Batcher
	Farming   *farming.Service
	DB        *pgxpool.Pool
	Cache     cache.Cache
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}
	retrier := postgres.NewRetrier(cfg.DBRetryAttempts, cfg.DBRetryBaseWait)

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Кэш кулдаунов ===
	var cooldownCache cache.Cache
	if cfg.RedisAddr != "" {
		cooldownCache, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: "fumo:",
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка кэша Redis: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("Кулдауны в Redis")
	} else {
		cooldownCache = cache.NewMemoryCache()
		log.Info("Кулдауны в памяти процесса")
	}
	cooldowns := cache.NewCooldowns(cooldownCache)

	// === 4. Репозитории ===
	accountRepo := account.NewRepository(pool)
	inventoryRepo := inventory.NewRepository(pool)
	boostRepo := boosts.NewRepository(pool)
	questRepo := quests.NewRepository(pool)
	farmingRepo := farming.NewRepository(pool)
	gamesRepo := games.NewRepository(pool)

	// === 5. Сервисы ===
	locker := common.NewUserLocker()
	accountService := account.NewService(accountRepo, locker)
	inventoryService := inventory.NewService(inventoryRepo)
	boostService := boosts.NewService(boostRepo)
	questService := quests.NewService(questRepo, accountService)

	ledger := batcher.NewLedgerFlusher(pool, questRepo, retrier)
	batch := batcher.New(ledger, cfg.BatcherFlushInterval)

	gachaService := gacha.NewService(accountService, boostService, inventoryService, questService, cfg)
	farmingService := farming.NewService(farmingRepo, accountService, boostService, inventoryService, batch, cfg)
	marketRegistry := market.NewRegistry()
	marketService := market.NewService(marketRegistry, accountService, inventoryService)
	usageService := usage.NewService(accountService, inventoryService, boostService, cfg.FarmingMaxFragments)
	gamesService := games.NewService(gamesRepo, accountService)

	// === 6. Обработчики ===
	confirms := confirm.NewRegistry(cfg.BotConfirmTimeout)
	accountHandler := account.NewHandler(accountService, botAPI)
	gachaHandler := gacha.NewHandler(gachaService, boostService, cooldowns, cfg, botAPI)
	inventoryHandler := inventory.NewHandler(inventoryService, botAPI)
	marketHandler := market.NewHandler(marketService, confirms, botAPI)
	farmingHandler := farming.NewHandler(farmingService, botAPI)
	usageHandler := usage.NewHandler(usageService, botAPI)
	gamesHandler := games.NewHandler(gamesService, cooldowns, cfg, botAPI)
	questsHandler := quests.NewHandler(questService, botAPI)

	// === 7. Доступ и сборка бота ===
	accessGate := filters.NewAccessGate(cfg.FloodChatID, cfg.MaintenanceMode, cfg.BannedIDs)
	b := bot.New(
		botAPI, cfg,
		accessGate, confirms,
		accountHandler,
		gachaHandler,
		inventoryHandler,
		marketHandler,
		farmingHandler,
		usageHandler,
		gamesHandler,
		questsHandler,
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(marketService, boostService)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Batcher:   batch,
		Farming:   farmingService,
		DB:        pool,
		Cache:     cooldownCache,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Accounts},
		{2, migration002Inventory},
		{3, migration003Boosts},
		{4, migration004Farming},
		{5, migration005Quests},
		{6, migration006Games},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}
	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    user_id BIGINT PRIMARY KEY,
    coins BIGINT NOT NULL DEFAULT 0,
    gems BIGINT NOT NULL DEFAULT 0,
    luck DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_rolls BIGINT NOT NULL DEFAULT 0,
    boost_charge INTEGER NOT NULL DEFAULT 0,
    boost_active BOOLEAN NOT NULL DEFAULT FALSE,
    boost_rolls_remaining INTEGER NOT NULL DEFAULT 0,
    rolls_left INTEGER NOT NULL DEFAULT 0,
    fragment_uses INTEGER NOT NULL DEFAULT 0,
    has_fantasy_book BOOLEAN NOT NULL DEFAULT FALSE,
    pity_astral BIGINT NOT NULL DEFAULT 0,
    pity_celestial BIGINT NOT NULL DEFAULT 0,
    pity_divine BIGINT NOT NULL DEFAULT 0,
    pity_eternal BIGINT NOT NULL DEFAULT 0,
    pity_transcendent BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

var migration002Inventory = `
CREATE TABLE IF NOT EXISTS inventory (
    user_id BIGINT NOT NULL,
    item_key VARCHAR(255) NOT NULL,
    quantity BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, item_key)
);
`

var migration003Boosts = `
CREATE TABLE IF NOT EXISTS active_boosts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    type VARCHAR(64) NOT NULL,
    source VARCHAR(128) NOT NULL,
    multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    expires_at TIMESTAMP,
    uses INTEGER NOT NULL DEFAULT 0,
    extra JSONB,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, type, source)
);
CREATE INDEX IF NOT EXISTS idx_active_boosts_user_type ON active_boosts(user_id, type);
CREATE INDEX IF NOT EXISTS idx_active_boosts_expires ON active_boosts(expires_at) WHERE expires_at IS NOT NULL;
`

var migration004Farming = `
CREATE TABLE IF NOT EXISTS farming_slots (
    user_id BIGINT NOT NULL,
    item_key VARCHAR(255) NOT NULL,
    coins_per_min BIGINT NOT NULL DEFAULT 0,
    gems_per_min BIGINT NOT NULL DEFAULT 0,
    quantity BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, item_key)
);
`

var migration005Quests = `
CREATE TABLE IF NOT EXISTS quest_progress (
    user_id BIGINT NOT NULL,
    quest_id VARCHAR(64) NOT NULL,
    bucket DATE NOT NULL,
    progress BIGINT NOT NULL DEFAULT 0,
    rewarded BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, quest_id, bucket)
);
`

var migration006Games = `
CREATE TABLE IF NOT EXISTS games (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    game_type VARCHAR(32) NOT NULL,
    bet BIGINT NOT NULL,
    payout BIGINT NOT NULL DEFAULT 0,
    detail JSONB,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_games_user_created ON games(user_id, created_at DESC);
CREATE TABLE IF NOT EXISTS game_stats (
    user_id BIGINT PRIMARY KEY,
    total_games INTEGER NOT NULL DEFAULT 0,
    total_wagered BIGINT NOT NULL DEFAULT 0,
    total_won BIGINT NOT NULL DEFAULT 0,
    biggest_win BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`
