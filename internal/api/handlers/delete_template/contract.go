package delete_template

import (
	"context"
	"time"
)

type TemplateService interface {
	Deactivate(ctx context.Context, id int64, cancelFuture bool, from time.Time, username string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
