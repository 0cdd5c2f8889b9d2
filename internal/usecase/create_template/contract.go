package create_template

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"
)

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.RecurringTemplate) (*domain.RecurringTemplate, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
}

// Generator интерфейс движка генерации по одному шаблону
type Generator interface {
	Execute(ctx context.Context, template *domain.RecurringTemplate, from, to time.Time) (*generate_bookings.Result, error)
}

// HistoryRepository интерфейс журнала действий
type HistoryRepository interface {
	Create(ctx context.Context, action, username string, data any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
