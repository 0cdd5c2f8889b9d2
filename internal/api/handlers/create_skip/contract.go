package create_skip

import (
	"context"
	"time"
)

type SkipService interface {
	CreateManual(ctx context.Context, templateID int64, date time.Time, details, username string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
