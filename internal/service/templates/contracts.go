package templates

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RecurringTemplate, error)
	List(ctx context.Context) ([]*domain.RecurringTemplate, error)
	Update(ctx context.Context, t *domain.RecurringTemplate) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListByTemplate(ctx context.Context, templateID int64, from, to *time.Time, primaryOnly bool) ([]*domain.Booking, error)
	CountActiveByTemplate(ctx context.Context, templateID int64) (int, error)
	NextActiveDate(ctx context.Context, templateID int64, from time.Time) (*time.Time, error)
	ListActivePrimaryIDs(ctx context.Context, templateID int64, from time.Time) ([]string, error)
	CancelWithLinked(ctx context.Context, id string) (int64, error)
}

// SkipRepository интерфейс репозитория пропусков
type SkipRepository interface {
	CountByTemplate(ctx context.Context, templateID int64) (int, error)
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
