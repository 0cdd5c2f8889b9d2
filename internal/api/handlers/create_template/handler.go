package create_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
	"github.com/m04kA/PARK-RecurringService/internal/api/middleware"
	createTemplate "github.com/m04kA/PARK-RecurringService/internal/usecase/create_template"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные шаблона"
)

type Handler struct {
	useCase CreateTemplateUseCase
	logger  Logger
}

func NewHandler(useCase CreateTemplateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/recurring-templates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req createTemplate.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Username = middleware.Username(r.Context())

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, createTemplate.ErrInvalidInput):
			h.logger.Warn("POST /recurring-templates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /recurring-templates - Failed to create template: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-templates - Template created: template_id=%d by %s",
		result.Template.ID, req.Username)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
