package lines

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// LineRepository интерфейс репозитория линий
type LineRepository interface {
	GetByName(ctx context.Context, date time.Time, name string) (*domain.Line, error)
	FirstForDate(ctx context.Context, date time.Time) (*domain.Line, error)
	CountForDate(ctx context.Context, date time.Time) (int, error)
	Create(ctx context.Context, l *domain.Line) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
