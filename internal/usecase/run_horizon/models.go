package run_horizon

import "github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"

// Summary агрегированный итог генерации по всем активным шаблонам
type Summary struct {
	HorizonDays  int                        `json:"horizonDays"`
	From         string                     `json:"from"`
	To           string                     `json:"to"`
	TotalCreated int                        `json:"totalCreated"`
	TotalSkipped int                        `json:"totalSkipped"`
	PerTemplate  []generate_bookings.Result `json:"perTemplate"`
}
