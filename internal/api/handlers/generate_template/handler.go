package generate_template

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/domain"
	runHorizon "github.com/m04kA/PARK-RecurringService/internal/usecase/run_horizon"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgInvalidRange      = "некорректный диапазон дат, ожидается YYYY-MM-DD"
	msgNotFound          = "шаблон не найден"
)

type GenerateRequest struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

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

// Handle POST /api/v1/recurring-templates/{templateId}/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /recurring-templates/{id}/generate - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req GenerateRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /recurring-templates/{id}/generate - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
	}

	var from, to time.Time
	if req.From != nil {
		from, err = time.Parse(domain.DateFormat, *req.From)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
	}
	if req.To != nil {
		to, err = time.Parse(domain.DateFormat, *req.To)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
	}

	result, err := h.useCase.GenerateForTemplate(r.Context(), templateID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, runHorizon.ErrTemplateNotFound):
			h.logger.Warn("POST /recurring-templates/{id}/generate - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, runHorizon.ErrInvalidInput):
			h.logger.Warn("POST /recurring-templates/{id}/generate - Invalid range: template_id=%d, error=%v", templateID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("POST /recurring-templates/{id}/generate - Failed: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-templates/{id}/generate - template_id=%d created=%d skipped=%d",
		templateID, result.Created, result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, result)
}
