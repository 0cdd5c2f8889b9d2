package delete_template

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/api/middleware"
	"github.com/m04kA/PARK-RecurringService/internal/service/templates"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgNotFound          = "шаблон не найден"
)

type DeactivateResponse struct {
	TemplateID int64 `json:"templateId"`
	Cancelled  int64 `json:"cancelled"`
}

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/recurring-templates/{templateId}?cancelFuture=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /recurring-templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	cancelFuture := r.URL.Query().Get("cancelFuture") == "true"
	username := middleware.Username(r.Context())

	cancelled, err := h.service.Deactivate(r.Context(), templateID, cancelFuture, time.Now(), username)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			h.logger.Warn("DELETE /recurring-templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /recurring-templates/{id} - Failed to deactivate template: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /recurring-templates/{id} - Template deactivated: template_id=%d, cancelled=%d by %s",
		templateID, cancelled, username)
	handlers.RespondJSON(w, http.StatusOK, DeactivateResponse{TemplateID: templateID, Cancelled: cancelled})
}
