package generate_all

import (
	"context"

	runHorizon "github.com/m04kA/PARK-RecurringService/internal/usecase/run_horizon"
)

type HorizonUseCase interface {
	GenerateAllActive(ctx context.Context, horizonDays *int) (*runHorizon.Summary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
