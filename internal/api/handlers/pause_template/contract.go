package pause_template

import (
	"context"

	"github.com/m04kA/PARK-RecurringService/internal/service/templates/models"
)

type TemplateService interface {
	SetPaused(ctx context.Context, id int64, paused bool, username string) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
