package create_template

import (
	"github.com/m04kA/PARK-RecurringService/internal/service/templates/models"
	"github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"
)

// Request запрос на создание шаблона
type Request struct {
	models.CreateTemplateRequest
	Username string `json:"-"`
}

// Response шаблон и итог немедленной генерации по нему
type Response struct {
	Template   *models.TemplateResponse  `json:"template"`
	Generation *generate_bookings.Result `json:"generation,omitempty"`
}
