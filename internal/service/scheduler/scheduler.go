package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	settingsRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/settings"
)

// settingLastRun ключ настройки с датой последнего ежедневного запуска
const settingLastRun = "recurring_last_generation_date"

// Scheduler ежедневный планировщик генерации бронирований.
// Тикает с заданным интервалом и запускает генерацию один раз в сутки
// после наступления настроенного времени по календарю площадки.
// Дата последнего запуска хранится в настройках, поэтому перезапуск
// сервиса не приводит к повторной генерации.
type Scheduler struct {
	runner   Runner
	settings SettingsRepository
	logger   Logger

	generationTime string // формат HH:MM
	location       *time.Location
	tick           time.Duration
}

// New создает новый планировщик
func New(runner Runner, settings SettingsRepository, logger Logger, generationTime string, location *time.Location, tick time.Duration) *Scheduler {
	return &Scheduler{
		runner:         runner,
		settings:       settings,
		logger:         logger,
		generationTime: generationTime,
		location:       location,
		tick:           tick,
	}
}

// Start запускает цикл планировщика до отмены контекста
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler: started, generation at %s (%s), tick %s",
		s.generationTime, s.location.String(), s.tick)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce проверяет, наступило ли время генерации, и запускает ее,
// если сегодня она еще не выполнялась
func (s *Scheduler) runOnce(ctx context.Context) {
	now := time.Now().In(s.location)
	today := now.Format(domain.DateFormat)

	if now.Format("15:04") < s.generationTime {
		return
	}

	lastRun, err := s.settings.Get(ctx, settingLastRun)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingNotFound) {
		s.logger.Error("scheduler: failed to read last run date: %v", err)
		return
	}
	if lastRun == today {
		return
	}

	s.logger.Info("scheduler: starting daily generation for %s", today)
	if err := s.runner.RunAll(ctx); err != nil {
		s.logger.Error("scheduler: daily generation failed: %v", err)
		return
	}

	if err := s.settings.Set(ctx, settingLastRun, today); err != nil {
		s.logger.Error("scheduler: failed to store last run date: %v", err)
		return
	}

	s.logger.Info("scheduler: daily generation for %s finished", today)
}
