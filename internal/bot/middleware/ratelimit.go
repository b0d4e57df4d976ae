package middleware

import (
	"sync"
	"time"
)

// RateLimiter ограничивает частоту команд на пользователя скользящим
// окном: не больше limit сообщений за window. Спам-роллы сверх лимита
// молча отбрасываются до освобождения окна.
type RateLimiter struct {
	mu     sync.Mutex
	seen   map[int64][]time.Time
	limit  int
	window time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		seen:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		stopCh: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Close останавливает фоновую горутину подметания. Вызывать на shutdown.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow сообщает, пропускать ли очередную команду пользователя,
// и при пропуске учитывает её в окне.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	recent := prune(rl.seen[userID], now.Add(-rl.window))

	if len(recent) >= rl.limit {
		rl.seen[userID] = recent
		return false
	}

	rl.seen[userID] = append(recent, now)
	return true
}

// prune отбрасывает отметки старше cutoff, сохраняя порядок.
func prune(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// sweep периодически выкидывает из карты молчащих пользователей,
// иначе она растёт на каждый user_id, когда-либо писавший боту.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.window)
			for userID, times := range rl.seen {
				recent := prune(times, cutoff)
				if len(recent) == 0 {
					delete(rl.seen, userID)
				} else {
					rl.seen[userID] = recent
				}
			}
			rl.mu.Unlock()
		}
	}
}
