package boosts

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"
)

func TestDiceValueMemoizesWithinHour(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2026, 3, 3, 10, 15, 0, 0, time.UTC)

	v1, extra, changed, err := diceValue(nil, now, rng)
	if err != nil {
		t.Fatalf("first roll failed: %v", err)
	}
	if !changed || extra == nil {
		t.Fatalf("first roll must persist a fresh log")
	}
	if v1 < diceMin || v1 >= diceMax {
		t.Fatalf("value %v outside [%v,%v)", v1, diceMin, diceMax)
	}

	// Тот же час (другая минута) — то же значение, без записи.
	v2, extra2, changed2, err := diceValue(extra, now.Add(30*time.Minute), rng)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if changed2 || extra2 != nil {
		t.Fatalf("same hour must not rewrite the log")
	}
	if v2 != v1 {
		t.Fatalf("same hour value changed: %v != %v", v2, v1)
	}
}

func TestDiceValueRollsNextHour(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	v1, extra, _, err := diceValue(nil, now, rng)
	if err != nil {
		t.Fatalf("first roll failed: %v", err)
	}
	_, extra2, changed, err := diceValue(extra, now.Add(time.Hour), rng)
	if err != nil {
		t.Fatalf("next hour roll failed: %v", err)
	}
	if !changed {
		t.Fatalf("next hour must reroll")
	}

	var dlog DiceLog
	if err := json.Unmarshal(extra2, &dlog); err != nil {
		t.Fatalf("log unmarshal failed: %v", err)
	}
	if len(dlog.Entries) != 2 {
		t.Fatalf("log entries=%d want=2", len(dlog.Entries))
	}
	if dlog.Entries[0].Value != v1 {
		t.Fatalf("first hour entry must survive")
	}
}

func TestDiceValueTrimsLog(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	var extra []byte
	for i := 0; i < diceLogMax+5; i++ {
		_, newExtra, changed, err := diceValue(extra, now.Add(time.Duration(i)*time.Hour), rng)
		if err != nil {
			t.Fatalf("hour %d failed: %v", i, err)
		}
		if changed {
			extra = newExtra
		}
	}

	var dlog DiceLog
	if err := json.Unmarshal(extra, &dlog); err != nil {
		t.Fatalf("log unmarshal failed: %v", err)
	}
	if len(dlog.Entries) != diceLogMax {
		t.Fatalf("log must trim to %d entries, got %d", diceLogMax, len(dlog.Entries))
	}
	// Остались самые свежие часы
	lastHour := now.Add(time.Duration(diceLogMax+4) * time.Hour).Unix()
	if dlog.Entries[len(dlog.Entries)-1].Hour != lastHour {
		t.Fatalf("newest entry must be the last hour")
	}
}

func TestDiceValueSurvivesCorruptLog(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	v, extra, changed, err := diceValue([]byte("{broken"), now, rng)
	if err != nil {
		t.Fatalf("corrupt log must not fail: %v", err)
	}
	if !changed || extra == nil {
		t.Fatalf("corrupt log must be replaced")
	}
	if v < diceMin || v >= diceMax {
		t.Fatalf("value %v outside range", v)
	}
}

func TestCompose(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	rows := []*Boost{
		{Type: TypeLuck, Multiplier: 2.0, ExpiresAt: &future},
		{Type: TypeLuck, Multiplier: 1.5}, // бессрочный
		{Type: TypeLuck, Multiplier: 10.0, ExpiresAt: &past},
	}
	got := Compose(rows, now)
	if got != 3.0 {
		t.Fatalf("compose=%v want=3.0", got)
	}
}

func TestComposeEmpty(t *testing.T) {
	if got := Compose(nil, time.Now()); got != 1.0 {
		t.Fatalf("empty compose=%v want=1.0", got)
	}
}
