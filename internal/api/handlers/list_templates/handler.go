package list_templates

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/service/templates"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgNotFound          = "шаблон не найден"
)

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

// Handle GET /api/v1/recurring-templates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), time.Now())
	if err != nil {
		h.logger.Error("GET /recurring-templates - Failed to list templates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /recurring-templates - %d templates retrieved", len(result.Templates))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleOne GET /api/v1/recurring-templates/{templateId}
func (h *Handler) HandleOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /recurring-templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	result, err := h.service.Get(r.Context(), templateID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			h.logger.Warn("GET /recurring-templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /recurring-templates/{id} - Failed to get template: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /recurring-templates/{id} - Template retrieved: template_id=%d", templateID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
