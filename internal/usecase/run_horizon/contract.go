package run_horizon

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"
)

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RecurringTemplate, error)
	ListActive(ctx context.Context) ([]*domain.RecurringTemplate, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
}

// Generator интерфейс движка генерации по одному шаблону
type Generator interface {
	Execute(ctx context.Context, template *domain.RecurringTemplate, from, to time.Time) (*generate_bookings.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
