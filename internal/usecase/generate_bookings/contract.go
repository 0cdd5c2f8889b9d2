package generate_bookings

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/infra/events"
	"github.com/m04kA/PARK-RecurringService/internal/service/conflicts"
	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	NextNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	ExistsForTemplateDate(ctx context.Context, templateID int64, date time.Time) (bool, error)
}

// SkipLedger интерфейс журнала пропусков
type SkipLedger interface {
	Has(ctx context.Context, templateID int64, date time.Time) (bool, error)
	Upsert(ctx context.Context, templateID int64, date time.Time, reason domain.SkipReason, details string) error
}

// LineResolver интерфейс подбора линии на дату
type LineResolver interface {
	Resolve(ctx context.Context, date time.Time, preferredName string) (*domain.Line, error)
}

// ConflictChecker интерфейс проверки конфликтов расписания
type ConflictChecker interface {
	CheckLine(ctx context.Context, date time.Time, lineID string, start types.TimeString, duration int) (*conflicts.LineCheck, error)
	CheckRoom(ctx context.Context, date time.Time, room string, start types.TimeString, duration int) (*domain.Booking, error)
}

// StaffClient интерфейс проверки графика сотрудников
type StaffClient interface {
	IsAvailable(ctx context.Context, name string, date time.Time) bool
}

// HistoryRepository интерфейс журнала действий
type HistoryRepository interface {
	Create(ctx context.Context, action, username string, data any) error
}

// EventPublisher интерфейс публикации событий о созданных бронированиях
type EventPublisher interface {
	Publish(event events.BookingCreatedEvent) error
}

// Automation интерфейс исполнителя правил автоматизации
type Automation interface {
	OnBookingCreated(ctx context.Context, b *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс счетчиков генерации
type Metrics interface {
	IncGenerated(pattern string)
	IncSkipped(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
