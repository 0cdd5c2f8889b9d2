package remove_skip

import (
	"context"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

type SkipService interface {
	Remove(ctx context.Context, skipID int64, username string) (*domain.SkipRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
