// Package batcher накапливает мелкие начисления в памяти и применяет их
// одной транзакцией раз в интервал. Тики фермы и прочий капающий доход
// не бьют по базе поштучно — амплификация записи ограничена.
//
// Семантика at-least-once: упавший флаш возвращает все дельты обратно
// в аккумулятор, потеря начислений невозможна. Крэш процесса между
// накоплением и флашем теряет ненафлашенное — осознанный компромисс
// в обмен на дешёвый O(1) Add без обращений к базе.
package batcher

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Delta — накопленные дельты одного пользователя.
type Delta struct {
	Coins      int64 // Дельта монет (может быть отрицательной)
	Gems       int64 // Дельта гемов
	QuestCoins int64 // Прогресс дневного квеста монет (только вверх)
}

// Flusher применяет весь батч одной транзакцией.
// Контракт: либо применяется всё, либо ничего (при ошибке батч вернётся).
type Flusher interface {
	ApplyBatch(ctx context.Context, updates map[int64]Delta) error
}

// Batcher — потокобезопасный аккумулятор дельт.
type Batcher struct {
	mu      sync.Mutex
	pending map[int64]Delta

	// flushMu гарантирует: два флаша не выполняются одновременно.
	flushMu sync.Mutex

	flusher  Flusher
	interval time.Duration
}

// New создаёт батчер с заданным интервалом флаша.
func New(flusher Flusher, interval time.Duration) *Batcher {
	return &Batcher{
		pending:  make(map[int64]Delta),
		flusher:  flusher,
		interval: interval,
	}
}

// Add накапливает дельты пользователя. O(1), не блокируется на I/O.
// Вызовы во время идущего флаша попадают в карту следующего цикла.
func (b *Batcher) Add(userID int64, coins, gems, questCoins int64) {
	b.mu.Lock()
	d := b.pending[userID]
	d.Coins += coins
	d.Gems += gems
	d.QuestCoins += questCoins
	b.pending[userID] = d
	b.mu.Unlock()
}

// Pending возвращает число пользователей с ненафлашенными дельтами.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush применяет все накопленные дельты одной транзакцией.
// При ошибке дельты возвращаются в аккумулятор и будут повторены
// следующим циклом (слившись с новыми начислениями).
func (b *Batcher) Flush(ctx context.Context) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	// Снимаем карту целиком: новые Add пойдут в свежую карту
	b.mu.Lock()
	drained := b.pending
	b.pending = make(map[int64]Delta)
	b.mu.Unlock()

	if len(drained) == 0 {
		return nil
	}

	if err := b.flusher.ApplyBatch(ctx, drained); err != nil {
		// Возвращаем дельты: сливаем с тем, что накапало за время флаша
		b.mu.Lock()
		for userID, d := range drained {
			cur := b.pending[userID]
			cur.Coins += d.Coins
			cur.Gems += d.Gems
			cur.QuestCoins += d.QuestCoins
			b.pending[userID] = cur
		}
		b.mu.Unlock()

		log.WithError(err).WithField("users", len(drained)).Error("Флаш батча не удался, дельты возвращены")
		return err
	}

	log.WithField("users", len(drained)).Debug("Батч нафлашен")
	return nil
}

// Run крутит цикл флашей до отмены контекста, затем флашит остаток.
func (b *Batcher) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	log.WithField("interval", b.interval).Info("Батчер запущен")

	for {
		select {
		case <-ctx.Done():
			// Финальный флаш на свежем контексте: родительский уже отменён
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := b.Flush(shutdownCtx); err != nil {
				log.WithError(err).Error("Финальный флаш не удался")
			}
			cancel()
			log.Info("Батчер остановлен")
			return

		case <-ticker.C:
			if err := b.Flush(ctx); err != nil {
				// Ошибка уже залогирована, дельты сохранены — едем дальше
				continue
			}
		}
	}
}
