// Package games — service.go: монетка и кости поверх баланса аккаунта.
// Ставки и выигрыши идут напрямую в баланс, мимо батчера: игрок должен
// сразу видеть результат и сразу мочь сыграть снова.
package games

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/account"
)

type Service struct {
	repo     *Repository
	accounts *account.Service

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(repo *Repository, accounts *account.Service) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Coinflip бросает монетку. pick — SideHeads или SideTails.
// Угадал — получаешь ставку ×2, не угадал — ставка сгорает.
func (s *Service) Coinflip(ctx context.Context, userID int64, bet int64, pick string) (*CoinflipResult, error) {
	if bet <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if pick != SideHeads && pick != SideTails {
		return nil, common.ErrInvalidAmount
	}

	unlock := s.accounts.Lock(userID)
	defer unlock()

	if err := s.accounts.SpendCoins(ctx, userID, bet); err != nil {
		return nil, err
	}

	landed := SideTails
	if s.roll(2) == 0 {
		landed = SideHeads
	}

	res := &CoinflipResult{Pick: pick, Landed: landed, Bet: bet}
	if landed == pick {
		res.Win = true
		res.Payout = bet * coinflipPayoutMult
		if err := s.accounts.AddCurrency(ctx, userID, res.Payout, 0); err != nil {
			return nil, err
		}
	}
	s.record(ctx, userID, GameCoinflip, bet, res.Payout, res)
	return res, nil
}

// Dice бросает кость. guess — грань 1..6, точное попадание платит ×5.
func (s *Service) Dice(ctx context.Context, userID int64, bet int64, guess int) (*DiceResult, error) {
	if bet <= 0 || guess < 1 || guess > 6 {
		return nil, common.ErrInvalidAmount
	}

	unlock := s.accounts.Lock(userID)
	defer unlock()

	if err := s.accounts.SpendCoins(ctx, userID, bet); err != nil {
		return nil, err
	}

	rolled := s.roll(6) + 1
	res := &DiceResult{Guess: guess, Rolled: rolled, Bet: bet}
	if rolled == guess {
		res.Win = true
		res.Payout = bet * dicePayoutMult
		if err := s.accounts.AddCurrency(ctx, userID, res.Payout, 0); err != nil {
			return nil, err
		}
	}
	s.record(ctx, userID, GameDice, bet, res.Payout, res)
	return res, nil
}

// Stats возвращает статистику мини-игр пользователя.
func (s *Service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	return s.repo.GetStats(ctx, userID)
}

func (s *Service) roll(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// record пишет историю и статистику. Ошибки записи не ломают игру:
// деньги уже разошлись корректно, история вторична.
func (s *Service) record(ctx context.Context, userID int64, gameType string, bet, payout int64, detail any) {
	data, _ := json.Marshal(detail)
	if err := s.repo.SaveGame(ctx, &Game{
		UserID:   userID,
		GameType: gameType,
		Bet:      bet,
		Payout:   payout,
		Detail:   data,
	}); err != nil {
		log.WithError(err).Error("ошибка записи истории игры")
	}
	if err := s.repo.UpdateStats(ctx, userID, bet, payout); err != nil {
		log.WithError(err).Error("ошибка обновления статистики игр")
	}
}
