package skips

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// SkipRepository интерфейс репозитория пропусков
type SkipRepository interface {
	Upsert(ctx context.Context, templateID int64, date time.Time, reason domain.SkipReason, details string) error
	ListByTemplate(ctx context.Context, templateID int64) ([]*domain.SkipRecord, error)
	Delete(ctx context.Context, id int64) (*domain.SkipRecord, error)
}

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RecurringTemplate, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CancelByTemplateOnDate(ctx context.Context, templateID int64, date time.Time) (int64, error)
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
