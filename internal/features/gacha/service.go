// Package gacha — service.go координирует ролл от оплаты до инвентаря.
// Вся последовательность «прочитал аккаунт → бросил → записал» выполняется
// под локом пользователя: два параллельных ролла не теряют пити друг друга.
package gacha

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/config"
	"fumoworld.ru/fumo-bot/internal/features/account"
	"fumoworld.ru/fumo-bot/internal/features/boosts"
	"fumoworld.ru/fumo-bot/internal/features/inventory"
	"fumoworld.ru/fumo-bot/internal/features/items"
	"fumoworld.ru/fumo-bot/internal/features/quests"
)

// Service управляет гачей.
type Service struct {
	accountService   *account.Service
	boostService     *boosts.Service
	inventoryService *inventory.Service
	questService     *quests.Service
	cfg              *config.Config

	// rand.Rand не потокобезопасен, а роллы разных пользователей параллельны
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService создаёт сервис гачи.
func NewService(
	accountService *account.Service,
	boostService *boosts.Service,
	inventoryService *inventory.Service,
	questService *quests.Service,
	cfg *config.Config,
) *Service {
	return &Service{
		accountService:   accountService,
		boostService:     boostService,
		inventoryService: inventoryService,
		questService:     questService,
		cfg:              cfg,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Roll выполняет один полный ролл.
//
// Порядок: оплата (монеты или бонусный ролл) → композиция удачи →
// оверрайд/пити/бросок → косметический вариант → запись состояния
// аккаунта одним апдейтом → выдача в инвентарь → счётчики квестов.
func (s *Service) Roll(ctx context.Context, userID int64) (*RollResult, error) {
	unlock := s.accountService.Lock(userID)
	defer unlock()

	a, err := s.accountService.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &RollResult{RollID: uuid.NewString()}

	// Оплата: бонусные роллы бесплатны, иначе списываем цену ролла
	if a.RollsLeft > 0 {
		res.BonusRoll = true
	} else {
		if err := s.accountService.SpendCoins(ctx, userID, s.cfg.GachaRollPrice); err != nil {
			return nil, err
		}
		res.PaidCoins = s.cfg.GachaRollPrice
	}

	// Композиция удачи; каждый десятый ролл подхватывает luckEvery10
	luckTypes := []string{boosts.TypeLuck}
	if (a.TotalRolls+1)%10 == 0 {
		luckTypes = append(luckTypes, boosts.TypeLuckEvery10)
	}
	luckMult, err := s.boostService.ComposeMultiplier(ctx, userID, luckTypes...)
	if err != nil {
		// Без бустов ролл всё равно валиден: играем с единичным множителем
		log.WithError(err).WithField("user_id", userID).Warn("Композиция удачи не удалась")
		luckMult = 1.0
	}
	luckMult *= 1.0 + a.Luck

	res.Boosted = a.BoostActive

	pity := PityState{}
	for _, tier := range PityOrder {
		pity[tier] = a.PityFor(tier)
	}

	// Сфера редкости подменяет весь бросок равномерным тиром из списка
	var rarity items.Rarity
	override, err := s.boostService.TakeOverride(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	if override != nil {
		rarity = ResolveOverride(s.rng)
		res.Override = true
	} else {
		rarity, res.Forced = ResolveRarity(s.rng, RollInput{
			LuckMult:  luckMult,
			Boosted:   a.BoostActive,
			BonusRoll: res.BonusRoll,
			HasBook:   a.HasFantasyBook,
		}, pity)
	}

	// Косметический вариант независим от тира
	tag := RollVariant(s.rng, a.Luck)

	// Случайное фумо выпавшего тира
	names := items.FumoPool[rarity]
	res.Ref = items.Ref{
		Base:   names[s.rng.Intn(len(names))],
		Rarity: rarity,
		Tag:    tag,
	}
	s.rngMu.Unlock()

	// Бухгалтерия аккаунта — всё в одном апдейте
	ApplyPity(pity, rarity, a.HasFantasyBook)
	for _, tier := range PityOrder {
		a.SetPity(tier, pity[tier])
	}

	a.TotalRolls++
	if a.BoostCharge < s.cfg.GachaChargeFull {
		a.BoostCharge++
	}
	if res.BonusRoll {
		a.RollsLeft--
	}
	res.BoostEnded = consumeBoostRoll(a)
	if items.RarityIndex(rarity) <= items.RarityIndex(items.RarityMythic) {
		a.Luck += luckPerRareRoll
		if a.Luck > 1.0 {
			a.Luck = 1.0
		}
	}

	if err := s.accountService.SaveRollState(ctx, a); err != nil {
		return nil, err
	}

	if err := s.inventoryService.AddFumo(ctx, userID, res.Ref, 1); err != nil {
		return nil, err
	}

	// Побочный эффект: счётчик квеста роллов. Ролл уже состоялся,
	// поэтому ошибка квеста его не отменяет — только лог.
	if err := s.questService.CountRoll(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Счётчик квеста роллов не записан")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"roll_id": res.RollID,
		"item":    res.Ref.String(),
		"forced":  res.Forced,
		"boosted": res.Boosted,
	}).Info("Ролл выполнен")

	return res, nil
}

// consumeBoostRoll тратит один буст-ролл. Когда роллы заканчиваются,
// флаг и счётчик сбрасываются вместе — активный буст с нулём роллов
// не существует ни в памяти, ни в записанном SaveRollState апдейте.
// Возвращает true, если этот ролл был последним буст-роллом.
func consumeBoostRoll(a *account.Account) (ended bool) {
	if !a.BoostActive {
		return false
	}
	a.BoostRollsRemaining--
	if a.BoostRollsRemaining <= 0 {
		a.BoostActive = false
		a.BoostRollsRemaining = 0
		return true
	}
	return false
}

// ActivateBoost включает буст-режим за полный заряд.
func (s *Service) ActivateBoost(ctx context.Context, userID int64) error {
	return s.accountService.ActivateBoost(ctx, userID, s.cfg.GachaChargeFull, s.cfg.GachaBoostRolls)
}
