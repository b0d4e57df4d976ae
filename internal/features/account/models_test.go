package account

import (
	"errors"
	"testing"

	"fumoworld.ru/fumo-bot/internal/common"
)

func TestCanActivateBoost(t *testing.T) {
	const chargeFull = 1000

	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{
			name:    "full charge activates",
			account: Account{BoostCharge: chargeFull},
			wantErr: nil,
		},
		{
			name:    "already active is rejected",
			account: Account{BoostActive: true, BoostRollsRemaining: 10, BoostCharge: chargeFull},
			wantErr: common.ErrBoostAlreadyActive,
		},
		{
			name:    "partial charge is rejected",
			account: Account{BoostCharge: chargeFull - 1},
			wantErr: common.ErrBoostChargeLow,
		},
		{
			name:    "zero charge is rejected",
			account: Account{},
			wantErr: common.ErrBoostChargeLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.CanActivateBoost(chargeFull)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err=%v want=%v", err, tt.wantErr)
			}
		})
	}
}
