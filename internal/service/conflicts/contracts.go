package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveForLine(ctx context.Context, date time.Time, lineID string) ([]*domain.Booking, error)
	ListActiveForRoom(ctx context.Context, date time.Time, room string) ([]*domain.Booking, error)
	ListActiveForProgram(ctx context.Context, date time.Time, programID int64) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
