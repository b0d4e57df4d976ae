// Package boosts — dice.go: почасовой множитель Таинственного кубика.
// Раз в часовое окно кубик бросается заново: свежее равномерное значение
// в [0.0001, 11.0]. Результат меморизуется в Extra-журнале строки буста
// и действует до конца часа. Журнал хранит последние 12 часовых записей.
package boosts

import (
	"encoding/json"
	"math/rand"
	"time"

	"fumoworld.ru/fumo-bot/internal/common"
)

// Диапазон значений кубика.
const (
	diceMin = 0.0001
	diceMax = 11.0
)

// diceLogMax — сколько часовых записей держим в журнале.
const diceLogMax = 12

// DiceEntry — одна часовая запись журнала кубика.
type DiceEntry struct {
	Hour  int64   `json:"hour"`  // Unix-время начала часа
	Value float64 `json:"value"` // Выпавший множитель
}

// DiceLog — журнал бросков кубика, сериализуется в Extra.
type DiceLog struct {
	Entries []DiceEntry `json:"entries"`
}

// rollDice бросает кубик: равномерное значение в [diceMin, diceMax).
func rollDice(rng *rand.Rand) float64 {
	return diceMin + rng.Float64()*(diceMax-diceMin)
}

// diceValue возвращает множитель кубика для момента now.
//
// Если в журнале уже есть запись текущего часа — возвращает её
// (changed = false). Иначе бросает кубик, дописывает запись, подрезает
// журнал до последних diceLogMax записей и возвращает свежее значение
// вместе с новым содержимым Extra (changed = true).
func diceValue(extra []byte, now time.Time, rng *rand.Rand) (value float64, newExtra []byte, changed bool, err error) {
	var dlog DiceLog
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &dlog); err != nil {
			// Битый журнал не фатален: начинаем новый
			dlog = DiceLog{}
		}
	}

	hour := common.HourBucket(now).Unix()
	for _, e := range dlog.Entries {
		if e.Hour == hour {
			return e.Value, nil, false, nil
		}
	}

	v := rollDice(rng)
	dlog.Entries = append(dlog.Entries, DiceEntry{Hour: hour, Value: v})
	if len(dlog.Entries) > diceLogMax {
		dlog.Entries = dlog.Entries[len(dlog.Entries)-diceLogMax:]
	}

	raw, err := json.Marshal(dlog)
	if err != nil {
		return 0, nil, false, err
	}
	return v, raw, true, nil
}
