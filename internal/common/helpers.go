// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование валют, работа с временем.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeCoins возвращает правильную форму слова «монета» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "монета" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "монеты" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "монет" (0, 5-20, 25-30, 100, ...)
func PluralizeCoins(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return "монета"
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "монеты"
	}

	return "монет"
}

// PluralizeGems возвращает правильную форму слова «гем».
func PluralizeGems(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "гем"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "гема"
	}
	return "гемов"
}

// FormatCoins форматирует сумму монет в читабельную строку.
// Пример: FormatCoins(150) → "150 монет"
func FormatCoins(n int64) string {
	return fmt.Sprintf("%d %s", n, PluralizeCoins(n))
}

// FormatGems форматирует сумму гемов.
func FormatGems(n int64) string {
	return fmt.Sprintf("%d %s", n, PluralizeGems(n))
}

// HourBucket возвращает начало часа для момента t (UTC).
// Используется для почасовой меморизации (MysteriousDice) и сброса каталогов.
func HourBucket(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// NextHourReset возвращает начало следующего часа после t (UTC).
// Каталоги рынка/магазина живут ровно до этого момента.
func NextHourReset(t time.Time) time.Time {
	return HourBucket(t).Add(time.Hour)
}

// DayBucket возвращает дату (без времени) для момента t (UTC).
// Используется как период дневных квестов.
func DayBucket(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend сообщает, действует ли «буст выходных» (пятница–воскресенье).
func IsWeekend(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
