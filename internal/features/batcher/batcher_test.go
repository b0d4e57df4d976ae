package batcher

import (
	"context"
	"errors"
	"testing"
)

// fakeFlusher запоминает применённые батчи и умеет падать по команде.
type fakeFlusher struct {
	applied []map[int64]Delta
	fail    bool
}

func (f *fakeFlusher) ApplyBatch(_ context.Context, updates map[int64]Delta) error {
	if f.fail {
		return errors.New("db down")
	}
	// Копия: батчер переиспользует карты
	cp := make(map[int64]Delta, len(updates))
	for k, v := range updates {
		cp[k] = v
	}
	f.applied = append(f.applied, cp)
	return nil
}

func TestBatcherAccumulatesPerUser(t *testing.T) {
	f := &fakeFlusher{}
	b := New(f, 0)

	b.Add(1, 100, 0, 100)
	b.Add(1, 50, 5, 50)
	b.Add(2, 10, 0, 10)

	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if len(f.applied) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(f.applied))
	}
	batch := f.applied[0]
	if d := batch[1]; d.Coins != 150 || d.Gems != 5 || d.QuestCoins != 150 {
		t.Fatalf("user 1 delta wrong: %+v", d)
	}
	if d := batch[2]; d.Coins != 10 || d.QuestCoins != 10 {
		t.Fatalf("user 2 delta wrong: %+v", d)
	}
	if b.Pending() != 0 {
		t.Fatalf("pending must be empty after flush, got %d", b.Pending())
	}
}

func TestBatcherEmptyFlushIsNoop(t *testing.T) {
	f := &fakeFlusher{}
	b := New(f, 0)
	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("empty flush failed: %v", err)
	}
	if len(f.applied) != 0 {
		t.Fatalf("empty flush must not call flusher")
	}
}

func TestBatcherRequeuesOnFailure(t *testing.T) {
	f := &fakeFlusher{fail: true}
	b := New(f, 0)

	b.Add(7, 100, 1, 100)
	if err := b.Flush(context.Background()); err == nil {
		t.Fatalf("expected flush error")
	}
	// Дельты вернулись и слились с новыми начислениями
	b.Add(7, 25, 0, 25)

	f.fail = false
	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("retry flush failed: %v", err)
	}
	d := f.applied[0][7]
	if d.Coins != 125 || d.Gems != 1 || d.QuestCoins != 125 {
		t.Fatalf("requeued delta wrong: %+v", d)
	}
	if len(f.applied) != 1 {
		t.Fatalf("deltas must not be applied twice, got %d batches", len(f.applied))
	}
}

func TestBatcherAddDuringNextCycle(t *testing.T) {
	f := &fakeFlusher{}
	b := New(f, 0)

	b.Add(3, 100, 0, 100)
	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	// Начисления после флаша копятся заново
	b.Add(3, 1, 0, 1)
	if b.Pending() != 1 {
		t.Fatalf("expected 1 pending user, got %d", b.Pending())
	}
	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("second flush failed: %v", err)
	}
	if d := f.applied[1][3]; d.Coins != 1 {
		t.Fatalf("second cycle delta wrong: %+v", d)
	}
}
