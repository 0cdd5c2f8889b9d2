package list_series

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/api/middleware"
	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/service/templates"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgInvalidRange      = "некорректный диапазон дат, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/recurring-templates/{templateId}/bookings?from=...&to=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /recurring-templates/{id}/bookings - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		from = &parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		to = &parsed
	}

	bookings, err := h.service.ListSeries(r.Context(), templateID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			h.logger.Warn("GET /recurring-templates/{id}/bookings - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /recurring-templates/{id}/bookings - Failed: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /recurring-templates/{id}/bookings - template_id=%d, %d bookings", templateID, len(bookings))
	handlers.RespondJSON(w, http.StatusOK, fromDomainBookings(templateID, bookings))
}

// HandleCancelFuture POST /api/v1/recurring-templates/{templateId}/cancel-future
func (h *Handler) HandleCancelFuture(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /recurring-templates/{id}/cancel-future - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	username := middleware.Username(r.Context())
	cancelled, err := h.service.CancelSeriesFuture(r.Context(), templateID, time.Now(), username)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			h.logger.Warn("POST /recurring-templates/{id}/cancel-future - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /recurring-templates/{id}/cancel-future - Failed: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-templates/{id}/cancel-future - template_id=%d cancelled=%d by %s",
		templateID, cancelled, username)
	handlers.RespondJSON(w, http.StatusOK, CancelResponse{TemplateID: templateID, Cancelled: cancelled})
}
