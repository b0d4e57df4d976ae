// service.go — бизнес-логика рынка и магазина: ленивая почасовая
// перегенерация каталогов, покупка и продажа.
package market

import (
	"context"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/account"
	"fumoworld.ru/fumo-bot/internal/features/inventory"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Продажа фумо обратно: четверть базовой цены редкости.
const sellDivisor = 4

type Service struct {
	registry  *Registry
	accounts  *account.Service
	inventory *inventory.Service

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

func NewService(registry *Registry, accounts *account.Service, inv *inventory.Service) *Service {
	return &Service{
		registry:  registry,
		accounts:  accounts,
		inventory: inv,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Market возвращает актуальный каталог рынка, генерируя его при
// необходимости. Вызов сериализован пер-юзерным локом: покупка и
// перегенерация не перемешиваются.
func (s *Service) Market(ctx context.Context, userID int64) (*Catalog, error) {
	unlock := s.accounts.Lock(userID)
	defer unlock()
	return s.catalog(ctx, userID, KindMarket)
}

// Shop возвращает актуальный каталог магазина.
func (s *Service) Shop(ctx context.Context, userID int64) (*Catalog, error) {
	unlock := s.accounts.Lock(userID)
	defer unlock()
	return s.catalog(ctx, userID, KindShop)
}

// catalog отдаёт живой каталог или перегенерирует просроченный.
// Вызывающий держит пер-юзерный лок.
func (s *Service) catalog(ctx context.Context, userID int64, kind Kind) (*Catalog, error) {
	now := s.now()
	if c := s.registry.Get(userID, kind, now); c != nil && !c.Expired(now) {
		return c, nil
	}
	a, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	elevated, veryElevated := s.registry.LastSeen(userID, kind, now)
	in := GenInput{
		UserID:           userID,
		Now:              now,
		HasBook:          a.HasFantasyBook,
		LastElevated:     elevated,
		LastVeryElevated: veryElevated,
	}

	s.rngMu.Lock()
	var c *Catalog
	if kind == KindShop {
		c = GenerateShop(s.rng, in)
	} else {
		c = GenerateMarket(s.rng, in)
	}
	s.rngMu.Unlock()

	s.registry.Put(c)
	log.WithFields(log.Fields{
		"user_id": userID,
		"kind":    kind,
		"items":   len(c.Items),
		"reset":   c.ResetTime,
	}).Debug("каталог перегенерирован")
	return c, nil
}

// Buy покупает qty единиц позиции itemKey из каталога kind.
// Списывает валюту, кладёт предмет в инвентарь и уменьшает сток:
// на рынке распроданная позиция исчезает, в магазине остаётся
// с пометкой «распродано».
func (s *Service) Buy(ctx context.Context, userID int64, kind Kind, itemKey string, qty int) (*CatalogItem, error) {
	if qty <= 0 {
		return nil, common.ErrInvalidAmount
	}
	unlock := s.accounts.Lock(userID)
	defer unlock()

	c, err := s.catalog(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	it := c.Find(itemKey)
	if it == nil {
		return nil, common.ErrNotInCatalog
	}
	if it.OutOfStock || it.Stock < qty {
		return nil, common.ErrOutOfStock
	}

	if it.GemPrice > 0 {
		err = s.accounts.SpendGems(ctx, userID, it.GemPrice*int64(qty))
	} else {
		err = s.accounts.SpendCoins(ctx, userID, it.Price*int64(qty))
	}
	if err != nil {
		return nil, err
	}
	if err := s.inventory.AddItem(ctx, userID, it.ItemKey, int64(qty)); err != nil {
		// Деньги уже списаны: предмет важнее стока, возвращаем ошибку
		// как есть, сток не трогаем.
		return nil, err
	}

	it.Stock -= qty
	if it.Stock <= 0 {
		if kind == KindShop {
			it.OutOfStock = true
		} else {
			s.prune(c, itemKey)
		}
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"kind":    kind,
		"item":    itemKey,
		"qty":     qty,
	}).Info("покупка в каталоге")
	return it, nil
}

// Sell продаёт qty фумо из инвентаря за четверть базовой цены.
// Продажа идёт напрямую в баланс, мимо батчера: пользователь должен
// сразу увидеть деньги и сразу мочь их потратить.
func (s *Service) Sell(ctx context.Context, userID int64, ref items.Ref, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, common.ErrInvalidAmount
	}
	if !items.FumoExists(ref.Base, ref.Rarity) {
		return 0, common.ErrItemNotFound
	}
	unlock := s.accounts.Lock(userID)
	defer unlock()

	if err := s.inventory.RemoveItem(ctx, userID, ref.String(), qty); err != nil {
		return 0, err
	}
	payout := items.Table[ref.Rarity].BasePrice / sellDivisor * qty
	if payout < 1 {
		payout = 1
	}
	if err := s.accounts.AddCurrency(ctx, userID, payout, 0); err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"item":    ref.String(),
		"qty":     qty,
		"payout":  payout,
	}).Info("продажа фумо")
	return payout, nil
}

// RegenerateAll перегенерирует просроченные каталоги всех известных
// пользователей. Дёргается кроном раз в час, чтобы каталоги
// неактивных пользователей тоже перекатывались.
func (s *Service) RegenerateAll(ctx context.Context) {
	for _, userID := range s.registry.Users() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		unlock := s.accounts.Lock(userID)
		if _, err := s.catalog(ctx, userID, KindMarket); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("перегенерация рынка не удалась")
		}
		if _, err := s.catalog(ctx, userID, KindShop); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("перегенерация магазина не удалась")
		}
		unlock()
	}
}

// prune убирает позицию из каталога рынка.
func (s *Service) prune(c *Catalog, itemKey string) {
	for i, it := range c.Items {
		if it.ItemKey == itemKey {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
