package list_templates

import (
	"context"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/service/templates/models"
)

type TemplateService interface {
	List(ctx context.Context, now time.Time) (*models.TemplateListResponse, error)
	Get(ctx context.Context, id int64, now time.Time) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
