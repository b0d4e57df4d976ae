// Package boosts — service.go: композиция множителей и выдача бустов.
package boosts

import (
	"context"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service управляет бустами игроков.
type Service struct {
	repo *Repository

	// rand.Rand не потокобезопасен, а ComposeMultiplier зовут параллельно
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService создаёт сервис бустов.
func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ComposeMultiplier возвращает итоговый множитель для классов эффектов types:
// произведение множителей всех активных бустов этих типов (1.0, если бустов нет).
//
// Таинственный кубик — особый случай: его множитель берётся из почасового
// журнала (и перебрасывается при первом обращении в новом часе).
func (s *Service) ComposeMultiplier(ctx context.Context, userID int64, types ...string) (float64, error) {
	rows, err := s.repo.ActiveByTypes(ctx, userID, types)
	if err != nil {
		return 1.0, err
	}

	now := time.Now()
	mult := 1.0
	for _, b := range rows {
		m := b.Multiplier

		if b.Source == SourceMystDice {
			s.rngMu.Lock()
			v, newExtra, changed, derr := diceValue(b.Extra, now, s.rng)
			s.rngMu.Unlock()
			if derr != nil {
				log.WithError(derr).WithField("user_id", userID).Error("Кубик: ошибка журнала")
				continue
			}
			if changed {
				if uerr := s.repo.UpdateExtra(ctx, b.ID, newExtra); uerr != nil {
					// Меморизация не удалась — значение всё равно применяем,
					// следующий час просто перебросит заново
					log.WithError(uerr).WithField("user_id", userID).Warn("Кубик: не удалось сохранить журнал")
				}
				log.WithFields(log.Fields{"user_id": userID, "value": v}).Debug("Кубик переброшен")
			}
			m = v
		}

		mult *= m
	}
	return mult, nil
}

// Compose перемножает множители неистёкших бустов (чистая функция).
func Compose(rows []*Boost, now time.Time) float64 {
	mult := 1.0
	for _, b := range rows {
		if b.Expired(now) {
			continue
		}
		mult *= b.Multiplier
	}
	return mult
}

// Grant выдаёт буст. duration = 0 — бессрочный, uses = 0 — не расходуемый.
func (s *Service) Grant(ctx context.Context, userID int64, boostType, source string, multiplier float64, duration time.Duration, uses int) error {
	b := &Boost{
		UserID:     userID,
		Type:       boostType,
		Source:     source,
		Multiplier: multiplier,
		Uses:       uses,
	}
	if duration > 0 {
		t := time.Now().Add(duration)
		b.ExpiresAt = &t
	}

	if err := s.repo.Upsert(ctx, b); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"type":    boostType,
		"source":  source,
		"mult":    multiplier,
	}).Info("Буст выдан")
	return nil
}

// TakeOverride забирает одно применение rarityOverride-буста.
// Возвращает nil без ошибки, если активного оверрайда нет.
func (s *Service) TakeOverride(ctx context.Context, userID int64) (*Boost, error) {
	b, err := s.repo.Active(ctx, userID, TypeRarityOverride)
	if err != nil || b == nil {
		return nil, err
	}
	if err := s.repo.ConsumeUse(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// SweepExpired удаляет истёкшие бусты (вызывается по расписанию).
func (s *Service) SweepExpired(ctx context.Context) error {
	n, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		log.WithField("deleted", n).Info("[CRON] Истёкшие бусты удалены")
	}
	return nil
}
