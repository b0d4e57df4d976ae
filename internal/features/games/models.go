// Package games — мини-игры на монеты: монетка и кости.
// models.go описывает структуры данных мини-игр.
package games

import (
	"encoding/json"
	"time"
)

// Виды игр.
const (
	GameCoinflip = "coinflip"
	GameDice     = "dice"
)

// Стороны монетки.
const (
	SideHeads = "heads"
	SideTails = "tails"
)

// Множители выплат (от ставки, ставка уже списана).
const (
	coinflipPayoutMult = 2 // Угадал сторону: ×2
	dicePayoutMult     = 5 // Угадал грань: ×5
)

// Game — запись одной сыгранной игры в БД.
type Game struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	GameType  string          `db:"game_type"`
	Bet       int64           `db:"bet"`
	Payout    int64           `db:"payout"`
	Detail    json.RawMessage `db:"detail"`
	CreatedAt time.Time       `db:"created_at"`
}

// Stats — накопленная статистика мини-игр пользователя.
type Stats struct {
	UserID       int64     `db:"user_id"`
	TotalGames   int       `db:"total_games"`
	TotalWagered int64     `db:"total_wagered"`
	TotalWon     int64     `db:"total_won"`
	BiggestWin   int64     `db:"biggest_win"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CoinflipResult — исход броска монетки.
type CoinflipResult struct {
	Pick   string // Что ставил игрок
	Landed string // Что выпало
	Bet    int64
	Payout int64 // 0 при проигрыше
	Win    bool
}

// DiceResult — исход броска кости.
type DiceResult struct {
	Guess  int // Ставка игрока, 1..6
	Rolled int // Выпавшая грань
	Bet    int64
	Payout int64
	Win    bool
}
