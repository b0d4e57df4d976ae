// Package postgres — retry.go оборачивает записи в повторы при конфликтах.
// PostgreSQL сообщает о конфликте сериализации/дедлоке отдельными SQLSTATE —
// такие операции безопасно повторить. Все остальные ошибки фатальны
// для операции и отдаются наверх без повторов.
package postgres

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// SQLSTATE-коды временных конфликтов записи.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// Retrier повторяет операции записи при временных конфликтах.
// Экспоненциальный backoff с джиттером, ограниченное число попыток.
type Retrier struct {
	Attempts int           // Максимум попыток (включая первую)
	BaseWait time.Duration // Базовая задержка перед вторым заходом
}

// NewRetrier создаёт Retrier с заданными параметрами.
func NewRetrier(attempts int, baseWait time.Duration) *Retrier {
	if attempts <= 0 {
		attempts = 1
	}
	if baseWait <= 0 {
		baseWait = 50 * time.Millisecond
	}
	return &Retrier{Attempts: attempts, BaseWait: baseWait}
}

// IsTransient сообщает, является ли ошибка временным конфликтом записи.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// Do выполняет fn, повторяя её при временных конфликтах.
// Задержка удваивается с каждой попыткой, джиттер до 50% сверху.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	wait := r.BaseWait
	var err error

	for attempt := 1; attempt <= r.Attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == r.Attempts {
			break
		}

		// Джиттер разводит конкурентов, которые сконфликтовали одновременно
		jitter := time.Duration(rand.Int63n(int64(wait)/2 + 1))
		delay := wait + jitter

		log.WithFields(log.Fields{
			"op":      op,
			"attempt": attempt,
			"delay":   delay,
		}).Warn("Конфликт записи, повторяем")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		wait *= 2
	}

	log.WithFields(log.Fields{"op": op, "attempts": r.Attempts}).Error("Повторы исчерпаны")
	return err
}
