package list_skips

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/service/skips"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgNotFound          = "шаблон не найден"
)

// SkipResponse запись о пропуске в ответе API
type SkipResponse struct {
	ID         int64     `json:"id"`
	TemplateID int64     `json:"templateId"`
	Date       string    `json:"date"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SkipListResponse ответ со списком пропусков
type SkipListResponse struct {
	Skips []SkipResponse `json:"skips"`
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

// Handle GET /api/v1/recurring-templates/{templateId}/skips
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /recurring-templates/{id}/skips - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	records, err := h.service.List(r.Context(), templateID)
	if err != nil {
		switch {
		case errors.Is(err, skips.ErrTemplateNotFound):
			h.logger.Warn("GET /recurring-templates/{id}/skips - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /recurring-templates/{id}/skips - Failed: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := SkipListResponse{Skips: make([]SkipResponse, 0, len(records))}
	for _, rec := range records {
		resp.Skips = append(resp.Skips, SkipResponse{
			ID:         rec.ID,
			TemplateID: rec.TemplateID,
			Date:       rec.Date.Format(domain.DateFormat),
			Reason:     string(rec.Reason),
			Details:    rec.Details,
			CreatedAt:  rec.CreatedAt,
		})
	}

	h.logger.Info("GET /recurring-templates/{id}/skips - template_id=%d, %d records", templateID, len(records))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
