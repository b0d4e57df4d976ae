// Package farming — service.go: бизнес-логика фермы.
// Тики никогда не пишут в базу напрямую — весь доход идёт через батчер.
package farming

import (
	"context"
	"math"

	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/config"
	"fumoworld.ru/fumo-bot/internal/features/account"
	"fumoworld.ru/fumo-bot/internal/features/batcher"
	"fumoworld.ru/fumo-bot/internal/features/boosts"
	"fumoworld.ru/fumo-bot/internal/features/inventory"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Service управляет фермой.
type Service struct {
	repo             *Repository
	accountService   *account.Service
	boostService     *boosts.Service
	inventoryService *inventory.Service
	batch            *batcher.Batcher
	scheduler        *Scheduler
	cfg              *config.Config
}

// NewService создаёт сервис фермы и его планировщик.
func NewService(
	repo *Repository,
	accountService *account.Service,
	boostService *boosts.Service,
	inventoryService *inventory.Service,
	batch *batcher.Batcher,
	cfg *config.Config,
) *Service {
	s := &Service{
		repo:             repo,
		accountService:   accountService,
		boostService:     boostService,
		inventoryService: inventoryService,
		batch:            batch,
		cfg:              cfg,
	}
	s.scheduler = NewScheduler(cfg.FarmingTickInterval, s.tick)
	return s
}

// Scheduler отдаёт планировщик для запуска в app.
func (s *Service) Scheduler() *Scheduler {
	return s.scheduler
}

// StartFarm ставит предмет на ферму.
// Идемпотентно: если слот уже работает — no-op без ошибки.
func (s *Service) StartFarm(ctx context.Context, userID int64, ref items.Ref, qty int64) error {
	if qty <= 0 {
		return common.ErrInvalidAmount
	}

	unlock := s.accountService.Lock(userID)
	defer unlock()

	itemKey := ref.String()

	if s.scheduler.Running(userID, itemKey) {
		return nil
	}

	have, err := s.inventoryService.Quantity(ctx, userID, itemKey)
	if err != nil {
		return err
	}
	if have < qty {
		return common.ErrNotInInventory
	}

	a, err := s.accountService.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	used, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		return err
	}
	if used >= s.cfg.FarmingBaseSlots+a.FragmentUses {
		return common.ErrFarmSlotsFull
	}

	info := items.Table[ref.Rarity]
	slot := &Slot{
		UserID:      userID,
		ItemKey:     itemKey,
		CoinsPerMin: info.CoinsPerMin,
		GemsPerMin:  info.GemsPerMin,
		Quantity:    qty,
	}
	if err := s.repo.Upsert(ctx, slot); err != nil {
		return err
	}

	s.scheduler.Start(userID, itemKey)

	log.WithFields(log.Fields{"user_id": userID, "item": itemKey, "qty": qty}).Info("Ферма запущена")
	return nil
}

// EndFarm останавливает ферму предмета и удаляет слот.
func (s *Service) EndFarm(ctx context.Context, userID int64, ref items.Ref) error {
	itemKey := ref.String()

	s.scheduler.Stop(userID, itemKey)

	ok, err := s.repo.Delete(ctx, userID, itemKey)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrFarmNotRunning
	}
	return nil
}

// StopQuantity снимает с фермы часть количества.
// Если остаётся ноль — слот останавливается целиком.
func (s *Service) StopQuantity(ctx context.Context, userID int64, ref items.Ref, qty int64) error {
	if qty <= 0 {
		return common.ErrInvalidAmount
	}

	itemKey := ref.String()
	slot, err := s.repo.Get(ctx, userID, itemKey)
	if err != nil {
		return err
	}
	if slot == nil {
		return common.ErrFarmNotRunning
	}

	if slot.Quantity <= qty {
		return s.EndFarm(ctx, userID, ref)
	}
	return s.repo.SetQuantity(ctx, userID, itemKey, slot.Quantity-qty)
}

// StopAllForUser останавливает всю ферму пользователя.
func (s *Service) StopAllForUser(ctx context.Context, userID int64) error {
	s.scheduler.StopAllForUser(userID)

	slots, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if _, err := s.repo.Delete(ctx, userID, slot.ItemKey); err != nil {
			return err
		}
	}
	return nil
}

// ListForUser возвращает слоты пользователя.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Slot, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ResumeAll восстанавливает расписание из персистентных слотов.
// Вызывается один раз на старте процесса: in-memory таймеры рестарт
// не переживают, строки в базе — переживают.
func (s *Service) ResumeAll(ctx context.Context) error {
	slots, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		s.scheduler.Start(slot.UserID, slot.ItemKey)
	}
	log.WithField("slots", len(slots)).Info("Ферма восстановлена после рестарта")
	return nil
}

// tick — один тик слота: валидация инвентаря, свежие бусты, доход в батчер.
// Возвращает false, если слот самоликвидировался.
func (s *Service) tick(ctx context.Context, userID int64, itemKey string) bool {
	slot, err := s.repo.Get(ctx, userID, itemKey)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "item": itemKey}).Error("Тик: ошибка чтения слота")
		return true // Временная ошибка — слот не убиваем
	}
	if slot == nil {
		return false
	}

	// Предмет могли продать/использовать — слот без подложки умирает
	have, err := s.inventoryService.Quantity(ctx, userID, itemKey)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "item": itemKey}).Error("Тик: ошибка чтения инвентаря")
		return true
	}
	if have <= 0 {
		if _, err := s.repo.Delete(ctx, userID, itemKey); err != nil {
			log.WithError(err).Error("Тик: не удалось удалить осиротевший слот")
		}
		log.WithFields(log.Fields{"user_id": userID, "item": itemKey}).Info("Слот фермы закрыт: предмета больше нет")
		return false
	}

	qty := slot.Quantity
	if have < qty {
		qty = have
	}

	// Бусты пересчитываются каждый тик: они могут меняться посреди фарма
	coinMult, err := s.boostService.ComposeMultiplier(ctx, userID, boosts.TypeCoin, boosts.TypeIncome)
	if err != nil {
		coinMult = 1.0
	}
	gemMult, err := s.boostService.ComposeMultiplier(ctx, userID, boosts.TypeGem, boosts.TypeIncome)
	if err != nil {
		gemMult = 1.0
	}

	coins := int64(math.Floor(float64(slot.CoinsPerMin*qty) * coinMult))
	gems := int64(math.Floor(float64(slot.GemsPerMin*qty) * gemMult))

	if coins > 0 || gems > 0 {
		// Никогда не пишем в базу напрямую — только через батчер
		s.batch.Add(userID, coins, gems, coins)
	}
	return true
}
