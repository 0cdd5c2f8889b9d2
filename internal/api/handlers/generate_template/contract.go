package generate_template

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"
)

type HorizonUseCase interface {
	GenerateForTemplate(ctx context.Context, templateID int64, from, to time.Time) (*generate_bookings.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
