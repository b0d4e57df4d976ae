// Package account — service.go содержит бизнес-логику аккаунтов.
// Сервис владеет реестром пользовательских локов: любой модуль,
// выполняющий «прочитал → изменил → записал», берёт лок через Lock.
package account

import (
	"context"

	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
)

// Service управляет аккаунтами игроков.
type Service struct {
	repo   *Repository
	locker *common.UserLocker
}

// NewService создаёт сервис аккаунтов.
func NewService(repo *Repository, locker *common.UserLocker) *Service {
	return &Service{repo: repo, locker: locker}
}

// Lock захватывает лок пользователя. Возвращает функцию освобождения.
func (s *Service) Lock(userID int64) func() {
	return s.locker.Lock(userID)
}

// GetOrCreate возвращает аккаунт, создавая его при первом обращении.
func (s *Service) GetOrCreate(ctx context.Context, userID int64) (*Account, error) {
	if err := s.repo.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// AddCurrency начисляет (или списывает с насыщением нулём) валюты.
func (s *Service) AddCurrency(ctx context.Context, userID int64, coins, gems int64) error {
	if err := s.repo.Ensure(ctx, userID); err != nil {
		return err
	}
	return s.repo.AddCurrency(ctx, userID, coins, gems)
}

// SpendCoins списывает монеты. Ошибка ErrInsufficientCoins при нехватке.
func (s *Service) SpendCoins(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if err := s.repo.Ensure(ctx, userID); err != nil {
		return err
	}
	ok, err := s.repo.SpendCoins(ctx, userID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInsufficientCoins
	}
	return nil
}

// SpendGems списывает гемы. Ошибка ErrInsufficientGems при нехватке.
func (s *Service) SpendGems(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if err := s.repo.Ensure(ctx, userID); err != nil {
		return err
	}
	ok, err := s.repo.SpendGems(ctx, userID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInsufficientGems
	}
	return nil
}

// SaveRollState сохраняет состояние аккаунта после ролла.
func (s *Service) SaveRollState(ctx context.Context, a *Account) error {
	return s.repo.SaveRollState(ctx, a)
}

// IncreaseLuck повышает удачу (монотонно, с потолком 1.0).
func (s *Service) IncreaseLuck(ctx context.Context, userID int64, luck float64) error {
	return s.repo.IncreaseLuck(ctx, userID, luck)
}

// UseFragment применяет фрагмент фермы (+1 постоянный слот, потолок maxUses).
func (s *Service) UseFragment(ctx context.Context, userID int64, maxUses int) error {
	ok, err := s.repo.AddFragmentUse(ctx, userID, maxUses)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrFragmentsMaxed
	}
	return nil
}

// GrantFantasyBook открывает верхние редкости.
func (s *Service) GrantFantasyBook(ctx context.Context, userID int64) error {
	return s.repo.SetFantasyBook(ctx, userID)
}

// AddRollsLeft добавляет бонусные роллы.
func (s *Service) AddRollsLeft(ctx context.Context, userID int64, n int) error {
	if n <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.AddRollsLeft(ctx, userID, n)
}

// ActivateBoost включает буст-режим при полном заряде.
func (s *Service) ActivateBoost(ctx context.Context, userID int64, chargeFull, boostRolls int) error {
	unlock := s.Lock(userID)
	defer unlock()

	a, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if err := a.CanActivateBoost(chargeFull); err != nil {
		return err
	}

	ok, err := s.repo.ActivateBoost(ctx, userID, chargeFull, boostRolls)
	if err != nil {
		return err
	}
	if !ok {
		// Проиграли гонку — заряд уже потрачен другим апдейтом
		return common.ErrBoostChargeLow
	}

	log.WithFields(log.Fields{"user_id": userID, "rolls": boostRolls}).Info("Буст-режим активирован")
	return nil
}
