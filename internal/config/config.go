// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"fumobot"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"fumo_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// Повторы при конфликтах записи (serialization failure / deadlock)
	DBRetryAttempts int           `envconfig:"DB_RETRY_ATTEMPTS" default:"5"`
	DBRetryBaseWait time.Duration `envconfig:"DB_RETRY_BASE_WAIT" default:"50ms"`

	// --- Redis (опционально: кэш кулдаунов; пусто = in-memory) ---
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// Режим обслуживания: экономические команды отвечают отказом
	MaintenanceMode bool `envconfig:"MAINTENANCE_MODE" default:"false"`
	// Забаненные user ID через запятую (модерация живёт снаружи, тут только список)
	BannedIDsRaw string  `envconfig:"BANNED_IDS" default:""`
	BannedIDs    []int64 `envconfig:"-"` // заполним вручную

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`
	// Сколько ждём ответа "да/нет" на подтверждение
	BotConfirmTimeout time.Duration `envconfig:"BOT_CONFIRM_TIMEOUT" default:"15s"`

	// --- Batcher ---
	BatcherFlushInterval time.Duration `envconfig:"BATCHER_FLUSH_INTERVAL" default:"10s"`

	// --- Farming ---
	FarmingTickInterval time.Duration `envconfig:"FARMING_TICK_INTERVAL" default:"60s"`
	FarmingBaseSlots    int           `envconfig:"FARMING_BASE_SLOTS" default:"5"`
	FarmingMaxFragments int           `envconfig:"FARMING_MAX_FRAGMENTS" default:"30"`

	// --- Gacha ---
	GachaRollPrice  int64 `envconfig:"GACHA_ROLL_PRICE" default:"100"`
	GachaBoostRolls int   `envconfig:"GACHA_BOOST_ROLLS" default:"30"`
	GachaChargeFull int   `envconfig:"GACHA_CHARGE_FULL" default:"1000"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Cooldowns ---
	RollCooldown time.Duration `envconfig:"ROLL_COOLDOWN" default:"3s"`
	GameCooldown time.Duration `envconfig:"GAME_COOLDOWN" default:"10s"`

	// --- Feature Flags ---
	FeatureGamesEnabled   bool `envconfig:"FEATURE_GAMES_ENABLED" default:"true"`
	FeatureMarketEnabled  bool `envconfig:"FEATURE_MARKET_ENABLED" default:"true"`
	FeatureFarmingEnabled bool `envconfig:"FEATURE_FARMING_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.DBRetryAttempts <= 0 {
		return fmt.Errorf("DB_RETRY_ATTEMPTS должен быть > 0")
	}
	if c.BatcherFlushInterval <= 0 {
		return fmt.Errorf("BATCHER_FLUSH_INTERVAL должен быть > 0")
	}
	if c.FarmingTickInterval <= 0 {
		return fmt.Errorf("FARMING_TICK_INTERVAL должен быть > 0")
	}
	if c.FarmingBaseSlots <= 0 || c.FarmingMaxFragments < 0 {
		return fmt.Errorf("некорректные FARMING_BASE_SLOTS/FARMING_MAX_FRAGMENTS")
	}
	if c.GachaRollPrice <= 0 {
		return fmt.Errorf("GACHA_ROLL_PRICE должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.BannedIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("BANNED_IDS parse: %w", err)
	}
	cfg.BannedIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
