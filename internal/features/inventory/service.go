// Package inventory — service.go содержит бизнес-логику инвентаря.
package inventory

import (
	"context"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Service управляет инвентарём игроков.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис инвентаря.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// AddFumo кладёт фумо в инвентарь.
func (s *Service) AddFumo(ctx context.Context, userID int64, ref items.Ref, qty int64) error {
	if qty <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.Add(ctx, userID, ref.String(), qty)
}

// AddItem кладёт предмет по готовому ключу хранилища.
func (s *Service) AddItem(ctx context.Context, userID int64, itemKey string, qty int64) error {
	if qty <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.Add(ctx, userID, itemKey, qty)
}

// RemoveItem списывает предметы. ErrNotInInventory при нехватке.
func (s *Service) RemoveItem(ctx context.Context, userID int64, itemKey string, qty int64) error {
	if qty <= 0 {
		return common.ErrInvalidAmount
	}
	ok, err := s.repo.Remove(ctx, userID, itemKey, qty)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotInInventory
	}
	return nil
}

// Quantity возвращает количество предмета на руках (0, если нет).
func (s *Service) Quantity(ctx context.Context, userID int64, itemKey string) (int64, error) {
	return s.repo.Quantity(ctx, userID, itemKey)
}

// List возвращает инвентарь пользователя.
func (s *Service) List(ctx context.Context, userID int64) ([]*Entry, error) {
	return s.repo.List(ctx, userID)
}
