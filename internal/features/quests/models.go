// Package quests управляет квестами и их прогрессом.
// models.go — определения квестов и запись прогресса.
//
// Прогресс бакетируется по периодам (день): ключ (user_id, quest_id, bucket).
// У каждого квеста есть потолок — прогресс насыщается и дальше не растёт.
package quests

import "time"

// Quest — определение квеста.
type Quest struct {
	ID      string // Стабильный идентификатор
	Title   string // Название для бота
	Ceiling int64  // Потолок прогресса за период
	Reward  int64  // Награда монетами при достижении потолка
}

// Идентификаторы квестов.
const (
	QuestDailyCoins = "daily_coins" // Заработать монеты за день
	QuestDailyRolls = "daily_rolls" // Сделать роллы за день
)

// All — все квесты бота.
var All = []Quest{
	{ID: QuestDailyCoins, Title: "Заработать монеты", Ceiling: 25000, Reward: 2500},
	{ID: QuestDailyRolls, Title: "Сделать роллы", Ceiling: 50, Reward: 1000},
}

// Find возвращает определение квеста по ID (nil, если нет).
func Find(id string) *Quest {
	for i := range All {
		if All[i].ID == id {
			return &All[i]
		}
	}
	return nil
}

// Progress — прогресс одного квеста за период.
type Progress struct {
	UserID    int64     `db:"user_id"`
	QuestID   string    `db:"quest_id"`
	Bucket    time.Time `db:"bucket"`   // Начало периода (UTC-дата)
	Value     int64     `db:"progress"` // Насыщается потолком квеста
	Rewarded  bool      `db:"rewarded"` // Награда уже выдана
	UpdatedAt time.Time `db:"updated_at"`
}
