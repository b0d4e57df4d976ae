package farming

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerStartIdempotent(t *testing.T) {
	s := NewScheduler(time.Minute, func(context.Context, int64, string) bool { return true })

	if !s.Start(1, "a") {
		t.Fatalf("first start must succeed")
	}
	if s.Start(1, "a") {
		t.Fatalf("second start of same key must be a no-op")
	}
	if !s.Start(1, "b") || !s.Start(2, "a") {
		t.Fatalf("different keys must start independently")
	}
	if s.Len() != 3 {
		t.Fatalf("len=%d want=3", s.Len())
	}
}

func TestSchedulerStopIdempotent(t *testing.T) {
	s := NewScheduler(time.Minute, func(context.Context, int64, string) bool { return true })

	s.Start(1, "a")
	if !s.Stop(1, "a") {
		t.Fatalf("stop of running slot must succeed")
	}
	if s.Stop(1, "a") {
		t.Fatalf("second stop must be a no-op")
	}
	if s.Running(1, "a") {
		t.Fatalf("slot must not be running after stop")
	}
}

func TestSchedulerStopAllForUser(t *testing.T) {
	s := NewScheduler(time.Minute, func(context.Context, int64, string) bool { return true })

	s.Start(1, "a")
	s.Start(1, "b")
	s.Start(2, "a")

	if n := s.StopAllForUser(1); n != 2 {
		t.Fatalf("stopped=%d want=2", n)
	}
	if s.Len() != 1 || !s.Running(2, "a") {
		t.Fatalf("other user's slot must survive")
	}
}

func TestEntryHeapOrder(t *testing.T) {
	now := time.Now()
	var h entryHeap
	heap.Init(&h)
	heap.Push(&h, &slotEntry{key: slotKey{1, "late"}, at: now.Add(3 * time.Minute)})
	heap.Push(&h, &slotEntry{key: slotKey{1, "soon"}, at: now.Add(1 * time.Minute)})
	heap.Push(&h, &slotEntry{key: slotKey{1, "mid"}, at: now.Add(2 * time.Minute)})

	want := []string{"soon", "mid", "late"}
	for _, name := range want {
		e := heap.Pop(&h).(*slotEntry)
		if e.key.itemKey != name {
			t.Fatalf("pop order wrong: got=%s want=%s", e.key.itemKey, name)
		}
	}
}

func TestSchedulerTicksAndReschedules(t *testing.T) {
	var ticks atomic.Int64
	s := NewScheduler(5*time.Millisecond, func(_ context.Context, userID int64, itemKey string) bool {
		if userID != 7 || itemKey != "a" {
			t.Errorf("tick got userID=%d itemKey=%q", userID, itemKey)
		}
		ticks.Add(1)
		return true
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(ctx)
	}()

	s.Start(7, "a")
	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	wg.Wait()

	if ticks.Load() < 2 {
		t.Fatalf("slot must keep ticking, got %d ticks", ticks.Load())
	}
	if !s.Running(7, "a") {
		t.Fatalf("slot must stay scheduled after ticks")
	}
}

func TestSchedulerDropsSlotWhenTickDeclines(t *testing.T) {
	var ticks atomic.Int64
	s := NewScheduler(5*time.Millisecond, func(context.Context, int64, string) bool {
		ticks.Add(1)
		return false // Слот исчез (например, фумо продали)
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(ctx)
	}()

	s.Start(7, "a")
	deadline := time.Now().Add(2 * time.Second)
	for s.Running(7, "a") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	wg.Wait()

	if ticks.Load() != 1 {
		t.Fatalf("declined slot must tick exactly once, got %d", ticks.Load())
	}
	if s.Running(7, "a") {
		t.Fatalf("declined slot must be dropped")
	}
}
