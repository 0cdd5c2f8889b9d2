package remove_skip

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/api/middleware"
	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/service/skips"
)

const (
	msgInvalidSkipID = "некорректный ID записи о пропуске"
	msgNotFound      = "запись о пропуске не найдена"
)

type RemoveSkipResponse struct {
	TemplateID int64  `json:"templateId"`
	Date       string `json:"date"`
}

type Handler struct {
	service SkipService
	logger  Logger
}

func NewHandler(service SkipService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/recurring-skips/{skipId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	skipID, err := strconv.ParseInt(vars["skipId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /recurring-skips/{id} - Invalid skip ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSkipID)
		return
	}

	username := middleware.Username(r.Context())
	record, err := h.service.Remove(r.Context(), skipID, username)
	if err != nil {
		switch {
		case errors.Is(err, skips.ErrSkipNotFound):
			h.logger.Warn("DELETE /recurring-skips/{id} - Skip not found: skip_id=%d", skipID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /recurring-skips/{id} - Failed: skip_id=%d, error=%v", skipID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /recurring-skips/{id} - skip_id=%d removed by %s, generation re-enabled for template=%d date=%s",
		skipID, username, record.TemplateID, record.Date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, RemoveSkipResponse{
		TemplateID: record.TemplateID,
		Date:       record.Date.Format(domain.DateFormat),
	})
}
