package list_skips

import (
	"context"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

type SkipService interface {
	List(ctx context.Context, templateID int64) ([]*domain.SkipRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
