// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежечасная перегенерация
// каталогов и уборка истёкших бустов.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/features/boosts"
	"fumoworld.ru/fumo-bot/internal/features/market"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	marketService *market.Service
	boostService  *boosts.Service
}

// NewScheduler создаёт планировщик задач.
// Часовой пояс — UTC: каталоги и кубик считают часовые вёдра в UTC,
// крон должен срабатывать на их границах.
func NewScheduler(marketService *market.Service, boostService *boosts.Service) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		marketService: marketService,
		boostService:  boostService,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Перегенерация каталогов на границе каждого часа
	s.cron.AddFunc("0 * * * *", func() {
		log.Info("[CRON] Ежечасная перегенерация каталогов")
		s.marketService.RegenerateAll(ctx)
	})

	// Уборка истёкших бустов раз в час
	s.cron.AddFunc("30 * * * *", func() {
		log.Debug("[CRON] Уборка истёкших бустов")
		if err := s.boostService.SweepExpired(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка уборки бустов")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (UTC)")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
