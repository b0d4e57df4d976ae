package gacha

import (
	"testing"

	"fumoworld.ru/fumo-bot/internal/features/account"
)

func TestConsumeBoostRollCountdown(t *testing.T) {
	a := &account.Account{BoostActive: true, BoostRollsRemaining: 3}

	for i := 0; i < 2; i++ {
		if ended := consumeBoostRoll(a); ended {
			t.Fatalf("roll %d: boost ended too early", i+1)
		}
		// Активный буст с нулём роллов не существует
		if a.BoostActive && a.BoostRollsRemaining <= 0 {
			t.Fatalf("roll %d: active boost with remaining=%d", i+1, a.BoostRollsRemaining)
		}
	}
	if a.BoostRollsRemaining != 1 {
		t.Fatalf("remaining=%d want=1", a.BoostRollsRemaining)
	}

	// Последний буст-ролл: флаг и счётчик сбрасываются вместе
	if ended := consumeBoostRoll(a); !ended {
		t.Fatalf("final roll must end the boost")
	}
	if a.BoostActive {
		t.Fatalf("boost flag must clear on the final roll")
	}
	if a.BoostRollsRemaining != 0 {
		t.Fatalf("remaining=%d want=0 after the final roll", a.BoostRollsRemaining)
	}
}

func TestConsumeBoostRollSingle(t *testing.T) {
	a := &account.Account{BoostActive: true, BoostRollsRemaining: 1}
	if ended := consumeBoostRoll(a); !ended {
		t.Fatalf("single-roll boost must end immediately")
	}
	if a.BoostActive || a.BoostRollsRemaining != 0 {
		t.Fatalf("got active=%v remaining=%d, want inactive/0", a.BoostActive, a.BoostRollsRemaining)
	}
}

func TestConsumeBoostRollInactiveNoop(t *testing.T) {
	a := &account.Account{BoostActive: false, BoostRollsRemaining: 0}
	if ended := consumeBoostRoll(a); ended {
		t.Fatalf("inactive boost must not end")
	}
	if a.BoostRollsRemaining != 0 {
		t.Fatalf("inactive boost must not touch the counter, got %d", a.BoostRollsRemaining)
	}
}
