package generate_all

import (
	"net/http"
	"strconv"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
)

const msgInvalidHorizon = "некорректный горизонт генерации"

type Handler struct {
	useCase HorizonUseCase
	logger  Logger
}

func NewHandler(useCase HorizonUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/recurring-templates/generate-all?horizonDays=14
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var horizonDays *int
	if raw := r.URL.Query().Get("horizonDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.logger.Warn("POST /recurring-templates/generate-all - Invalid horizon: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidHorizon)
			return
		}
		horizonDays = &parsed
	}

	summary, err := h.useCase.GenerateAllActive(r.Context(), horizonDays)
	if err != nil {
		h.logger.Error("POST /recurring-templates/generate-all - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /recurring-templates/generate-all - created=%d skipped=%d across %d templates",
		summary.TotalCreated, summary.TotalSkipped, len(summary.PerTemplate))
	handlers.RespondJSON(w, http.StatusOK, summary)
}
