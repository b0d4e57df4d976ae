// Package boosts управляет активными бустами игроков.
// models.go описывает запись буста и известные типы/источники.
//
// Бусты одного типа, но разных источников перемножаются.
// ExpiresAt = NULL — бессрочный буст. Uses > 0 — расходуемый буст:
// строка удаляется, когда применения заканчиваются.
package boosts

import "time"

// Boost — одна запись активного буста.
// Ключ таблицы: (user_id, type, source).
type Boost struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	Type       string     `db:"type"`       // Класс эффекта (luck, coin, ...)
	Source     string     `db:"source"`     // Откуда буст (имя предмета/события)
	Multiplier float64    `db:"multiplier"` // Множитель эффекта
	ExpiresAt  *time.Time `db:"expires_at"` // NULL = бессрочный
	Uses       int        `db:"uses"`       // 0 = не расходуемый
	Extra      []byte     `db:"extra"`      // Произвольное состояние источника (JSONB)
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// Expired сообщает, истёк ли буст на момент now.
func (b *Boost) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}

// Типы эффектов. Набор открытый: неизвестный тип просто никем не запрашивается.
const (
	TypeLuck           = "luck"           // Удача гачи
	TypeCoin           = "coin"           // Доход монет
	TypeGem            = "gem"            // Доход гемов
	TypeIncome         = "income"         // Любой доход (монеты и гемы)
	TypeSummonCooldown = "summonCooldown" // Делитель кулдауна ролла
	TypeSummonSpeed    = "summonSpeed"    // Тоже делитель кулдауна (исторически отдельный)
	TypeRarityOverride = "rarityOverride" // Подмена ролла случайным тиром из списка
	TypeLuckEvery10    = "luckEvery10"    // Доп. удача на каждом десятом ролле
)

// Известные источники со специальным поведением.
const (
	// SourceMystDice — единственный буст со скрытым состоянием:
	// множитель перегенерируется раз в час и меморизуется в Extra.
	SourceMystDice = "MysteriousDice"
)
