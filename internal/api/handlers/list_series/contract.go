package list_series

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

type TemplateService interface {
	ListSeries(ctx context.Context, id int64, from, to *time.Time) ([]*domain.Booking, error)
	CancelSeriesFuture(ctx context.Context, id int64, from time.Time, username string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
