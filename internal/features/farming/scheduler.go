// Package farming — scheduler.go: единый планировщик тиков фермы.
// Вместо таймера на каждый слот — одна приоритетная очередь по времени
// следующего тика и одна горутина: ресурсы ограничены константой,
// сколько бы слотов ни фармилось.
//
// Гарантии: Start идемпотентен; тики одного ключа не перекрываются
// (перепланирование происходит только после завершения тика);
// Stop идемпотентен и вычищает ровно свою запись.
package farming

import (
	"container/heap"
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// TickFunc выполняет один тик слота.
// Возвращает false, если слот больше не существует — перепланирования не будет.
type TickFunc func(ctx context.Context, userID int64, itemKey string) bool

type slotKey struct {
	userID  int64
	itemKey string
}

type slotEntry struct {
	key     slotKey
	at      time.Time // Время следующего тика
	index   int       // Позиция в куче (поддерживается heap.Interface)
	removed bool      // Stop пометил запись мёртвой
}

// entryHeap — min-куча по времени следующего тика.
type entryHeap []*slotEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x any)         { e := x.(*slotEntry); e.index = len(*h); *h = append(*h, e) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler — планировщик тиков фермы.
type Scheduler struct {
	mu      sync.Mutex
	queue   entryHeap
	entries map[slotKey]*slotEntry

	interval time.Duration
	tick     TickFunc
	wake     chan struct{}
}

// NewScheduler создаёт планировщик с заданным интервалом тика.
func NewScheduler(interval time.Duration, tick TickFunc) *Scheduler {
	return &Scheduler{
		entries:  make(map[slotKey]*slotEntry),
		interval: interval,
		tick:     tick,
		wake:     make(chan struct{}, 1),
	}
}

// Start ставит слот в расписание. Идемпотентен: повторный Start
// работающего ключа — no-op, возвращает false.
func (s *Scheduler) Start(userID int64, itemKey string) bool {
	k := slotKey{userID, itemKey}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[k]; ok {
		return false
	}

	e := &slotEntry{key: k, at: time.Now().Add(s.interval)}
	s.entries[k] = e
	heap.Push(&s.queue, e)
	s.signal()
	return true
}

// Stop снимает слот с расписания. Идемпотентен: false, если слот не работал.
func (s *Scheduler) Stop(userID int64, itemKey string) bool {
	k := slotKey{userID, itemKey}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok {
		return false
	}
	delete(s.entries, k)
	e.removed = true // Запись в куче станет мусором и будет пропущена
	return true
}

// StopAllForUser снимает все слоты пользователя. Возвращает число снятых.
func (s *Scheduler) StopAllForUser(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.entries {
		if k.userID == userID {
			delete(s.entries, k)
			e.removed = true
			n++
		}
	}
	return n
}

// Running сообщает, работает ли слот.
func (s *Scheduler) Running(userID int64, itemKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[slotKey{userID, itemKey}]
	return ok
}

// Len возвращает число работающих слотов.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run крутит очередь до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) {
	log.WithField("interval", s.interval).Info("Планировщик фермы запущен")

	for {
		s.mu.Lock()
		// Выбрасываем мёртвые записи с вершины
		for len(s.queue) > 0 && s.queue[0].removed {
			heap.Pop(&s.queue)
		}

		var wait time.Duration
		if len(s.queue) == 0 {
			wait = time.Hour // Разбудит wake при следующем Start
		} else {
			wait = time.Until(s.queue[0].at)
			if wait < 0 {
				wait = 0
			}
		}
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Планировщик фермы остановлен")
			return
		case <-s.wake:
			timer.Stop()
			continue
		case <-timer.C:
		}

		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].at.After(time.Now()) {
			s.mu.Unlock()
			continue
		}
		e := heap.Pop(&s.queue).(*slotEntry)
		if e.removed {
			s.mu.Unlock()
			continue
		}
		s.mu.Unlock()

		// Тик в отдельной горутине, чтобы долгий I/O не стопорил очередь.
		// Перепланирование — только после завершения тика: тики одного
		// ключа не перекрываются.
		go s.runTick(ctx, e)
	}
}

func (s *Scheduler) runTick(ctx context.Context, e *slotEntry) {
	keep := s.tick(ctx, e.key.userID, e.key.itemKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.entries[e.key]
	if !ok || cur != e || e.removed {
		// Слот остановили, пока шёл тик
		return
	}
	if !keep {
		delete(s.entries, e.key)
		return
	}

	e.at = time.Now().Add(s.interval)
	heap.Push(&s.queue, e)
	s.signal()
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
