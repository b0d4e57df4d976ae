// Package quests — service.go: бизнес-логика квестов.
package quests

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
)

// Wallet начисляет валюту за награды. Маленький интерфейс вместо
// прямой зависимости от account: батчер и так тянет этот пакет.
type Wallet interface {
	AddCurrency(ctx context.Context, userID int64, coins, gems int64) error
}

// Service управляет квестами.
type Service struct {
	repo   *Repository
	wallet Wallet
}

// NewService создаёт сервис квестов.
func NewService(repo *Repository, wallet Wallet) *Service {
	return &Service{repo: repo, wallet: wallet}
}

// CountRoll засчитывает один ролл в дневной квест роллов.
func (s *Service) CountRoll(ctx context.Context, userID int64) error {
	q := Find(QuestDailyRolls)
	return s.repo.AddProgress(ctx, userID, q.ID, common.DayBucket(time.Now()), 1, q.Ceiling)
}

// Today возвращает прогресс всех квестов пользователя за сегодня.
func (s *Service) Today(ctx context.Context, userID int64) ([]*Progress, error) {
	return s.repo.ListForBucket(ctx, userID, common.DayBucket(time.Now()))
}

// ClaimReward выдаёт награду за выполненный квест.
// Возвращает размер награды; 0 — если квест не выполнен или уже награждён.
func (s *Service) ClaimReward(ctx context.Context, userID int64, questID string) (int64, error) {
	q := Find(questID)
	if q == nil {
		return 0, common.ErrItemNotFound
	}

	ok, err := s.repo.MarkRewarded(ctx, userID, q.ID, common.DayBucket(time.Now()), q.Ceiling)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	// Награда идёт напрямую в баланс: квест помечен наградённым,
	// потеря начисления хуже задержки батчера.
	if err := s.wallet.AddCurrency(ctx, userID, q.Reward, 0); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{"user_id": userID, "quest": questID, "reward": q.Reward}).Info("Квест выполнен")
	return q.Reward, nil
}
