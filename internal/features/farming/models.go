// Package farming реализует пассивный доход: слоты фермы и их тики.
// models.go — структура слота фермы.
package farming

import "time"

// Slot — один фермерский слот: предмет пользователя приносит доход
// каждую минуту, пока слот существует и предмет лежит в инвентаре.
// Лимит слотов на пользователя: база + использованные фрагменты.
type Slot struct {
	UserID      int64     `db:"user_id"`
	ItemKey     string    `db:"item_key"`      // Ключ предмета ("Reimu(UNCOMMON)")
	CoinsPerMin int64     `db:"coins_per_min"` // Монет в минуту за единицу
	GemsPerMin  int64     `db:"gems_per_min"`  // Гемов в минуту за единицу
	Quantity    int64     `db:"quantity"`      // Сколько единиц фармится
	CreatedAt   time.Time `db:"created_at"`
}
