package create_skip

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/api/middleware"
	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/service/skips"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgNotFound           = "шаблон не найден"
)

type CreateSkipRequest struct {
	Date    string `json:"date"`
	Details string `json:"details,omitempty"`
}

type CreateSkipResponse struct {
	TemplateID int64  `json:"templateId"`
	Date       string `json:"date"`
	Cancelled  int64  `json:"cancelled"`
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

// Handle POST /api/v1/recurring-templates/{templateId}/skips
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /recurring-templates/{id}/skips - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req CreateSkipRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-templates/{id}/skips - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /recurring-templates/{id}/skips - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	username := middleware.Username(r.Context())
	cancelled, err := h.service.CreateManual(r.Context(), templateID, date, req.Details, username)
	if err != nil {
		switch {
		case errors.Is(err, skips.ErrTemplateNotFound):
			h.logger.Warn("POST /recurring-templates/{id}/skips - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /recurring-templates/{id}/skips - Failed: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-templates/{id}/skips - template_id=%d date=%s by %s",
		templateID, req.Date, username)
	handlers.RespondJSON(w, http.StatusCreated, CreateSkipResponse{
		TemplateID: templateID,
		Date:       req.Date,
		Cancelled:  cancelled,
	})
}
