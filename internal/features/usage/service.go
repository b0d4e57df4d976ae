// Package usage — применение расходников из инвентаря.
// Один вход: Use списывает предмет и включает его эффект.
package usage

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/account"
	"fumoworld.ru/fumo-bot/internal/features/boosts"
	"fumoworld.ru/fumo-bot/internal/features/inventory"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Множители эффектов. Длительности и uses берутся из описания предмета.
const (
	luckPotionMult   = 2.0
	goldenCloverMult = 1.5
	gemPrismMult     = 2.0
)

type Service struct {
	accounts     *account.Service
	inventory    *inventory.Service
	boosts       *boosts.Service
	maxFragments int
}

func NewService(accounts *account.Service, inv *inventory.Service, b *boosts.Service, maxFragments int) *Service {
	return &Service{
		accounts:     accounts,
		inventory:    inv,
		boosts:       b,
		maxFragments: maxFragments,
	}
}

// Use применяет один расходник itemKey из инвентаря пользователя.
// Возвращает описание предмета для ответа бота.
// Фумо применить нельзя: они продаются или фармятся.
func (s *Service) Use(ctx context.Context, userID int64, itemKey string) (*items.Consumable, error) {
	cons := items.FindConsumable(itemKey)
	if cons == nil {
		return nil, common.ErrItemNotUsable
	}

	unlock := s.accounts.Lock(userID)
	defer unlock()

	// Сначала применяем эффект, потом списываем предмет: неудачный
	// эффект (например, фрагменты на максимуме) не должен съесть предмет.
	if err := s.apply(ctx, userID, cons); err != nil {
		return nil, err
	}
	if err := s.inventory.RemoveItem(ctx, userID, cons.Name, 1); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"item":    cons.Name,
		"effect":  cons.Effect,
	}).Info("расходник применён")
	return cons, nil
}

func (s *Service) apply(ctx context.Context, userID int64, cons *items.Consumable) error {
	dur := time.Duration(cons.Hours) * time.Hour

	switch cons.Effect {
	case items.EffectFantasyBook:
		return s.accounts.GrantFantasyBook(ctx, userID)

	case items.EffectFarmFragment:
		return s.accounts.UseFragment(ctx, userID, s.maxFragments)

	case items.EffectLuckPotion:
		return s.boosts.Grant(ctx, userID, boosts.TypeLuck, cons.Name, luckPotionMult, dur, 0)

	case items.EffectGoldenClover:
		return s.boosts.Grant(ctx, userID, boosts.TypeCoin, cons.Name, goldenCloverMult, dur, 0)

	case items.EffectGemPrism:
		return s.boosts.Grant(ctx, userID, boosts.TypeGem, cons.Name, gemPrismMult, dur, 0)

	case items.EffectMystDice:
		// Множитель кубика живёт не здесь: он перебрасывается каждый
		// час при композиции бустов. Сама запись бессрочная.
		return s.boosts.Grant(ctx, userID, boosts.TypeLuck, boosts.SourceMystDice, 1.0, 0, 0)

	case items.EffectRarityOrb:
		return s.boosts.Grant(ctx, userID, boosts.TypeRarityOverride, cons.Name, 1.0, 0, cons.Uses)
	}
	return common.ErrItemNotUsable
}
