package models

import (
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// Request модели

// CreateTemplateRequest запрос на создание шаблона повторяющегося бронирования
type CreateTemplateRequest struct {
	Pattern       string  `json:"pattern"`
	DaysOfWeek    []int   `json:"daysOfWeek,omitempty"`    // ISO: 1=Пн ... 7=Вс
	IntervalWeeks int     `json:"intervalWeeks,omitempty"` // 0 трактуется как 1
	MonthlyRule   *string `json:"monthlyRule,omitempty"`   // например "1st_6" или "last_7"

	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"` // NULL = бессрочно
	TimeStart string  `json:"timeStart"`

	PreferredLineName *string `json:"preferredLineName,omitempty"` // NULL = первая свободная линия
	Room              *string `json:"room,omitempty"`

	ProgramID   int64    `json:"programId"`
	ProgramCode *string  `json:"programCode,omitempty"`
	Label       *string  `json:"label,omitempty"`
	ProgramName *string  `json:"programName,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Duration    int      `json:"duration"`
	Price       *float64 `json:"price,omitempty"`
	Hosts       int      `json:"hosts,omitempty"` // 0 трактуется как 1

	SecondAnimatorName *string `json:"secondAnimatorName,omitempty"`
	PinataFiller       *string `json:"pinataFiller,omitempty"`
	KidsCount          *int    `json:"kidsCount,omitempty"`
	GroupName          *string `json:"groupName,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	Status *string `json:"status,omitempty"` // целевой статус бронирований
}

// UpdateTemplateRequest запрос на обновление шаблона
// Все поля опциональны - обновляются только переданные значения
type UpdateTemplateRequest struct {
	Pattern       *string `json:"pattern,omitempty"`
	DaysOfWeek    []int   `json:"daysOfWeek,omitempty"`
	IntervalWeeks *int    `json:"intervalWeeks,omitempty"`
	MonthlyRule   *string `json:"monthlyRule,omitempty"`

	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	TimeStart *string `json:"timeStart,omitempty"`

	PreferredLineName *string `json:"preferredLineName,omitempty"`
	Room              *string `json:"room,omitempty"`

	Duration *int     `json:"duration,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Hosts    *int     `json:"hosts,omitempty"`

	SecondAnimatorName *string `json:"secondAnimatorName,omitempty"`
	PinataFiller       *string `json:"pinataFiller,omitempty"`
	KidsCount          *int    `json:"kidsCount,omitempty"`
	GroupName          *string `json:"groupName,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	Status *string `json:"status,omitempty"`
}

// Response модели

// TemplateResponse ответ с данными шаблона и сводкой по серии
type TemplateResponse struct {
	ID            int64   `json:"id"`
	Pattern       string  `json:"pattern"`
	DaysOfWeek    []int   `json:"daysOfWeek,omitempty"`
	IntervalWeeks int     `json:"intervalWeeks"`
	MonthlyRule   *string `json:"monthlyRule,omitempty"`

	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
	TimeStart string  `json:"timeStart"`
	TimeEnd   string  `json:"timeEnd"`

	PreferredLineName *string `json:"preferredLineName,omitempty"`
	Room              *string `json:"room,omitempty"`

	ProgramID   int64    `json:"programId"`
	ProgramCode *string  `json:"programCode,omitempty"`
	Label       *string  `json:"label,omitempty"`
	ProgramName *string  `json:"programName,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Duration    int      `json:"duration"`
	Price       *float64 `json:"price,omitempty"`
	Hosts       int      `json:"hosts"`

	SecondAnimatorName *string `json:"secondAnimatorName,omitempty"`
	PinataFiller       *string `json:"pinataFiller,omitempty"`
	KidsCount          *int    `json:"kidsCount,omitempty"`
	GroupName          *string `json:"groupName,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	Status   string `json:"status"`
	IsActive bool   `json:"isActive"`

	ActiveBookings int     `json:"activeBookings"`
	SkippedDates   int     `json:"skippedDates"`
	NextDate       *string `json:"nextDate,omitempty"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.RecurringTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	resp := &TemplateResponse{
		ID:                 t.ID,
		Pattern:            string(t.Pattern),
		DaysOfWeek:         t.DaysOfWeek,
		IntervalWeeks:      t.IntervalWeeks,
		MonthlyRule:        t.MonthlyRule,
		StartDate:          t.StartDate.Format(domain.DateFormat),
		TimeStart:          string(t.TimeStart),
		TimeEnd:            string(t.TimeEnd),
		PreferredLineName:  t.PreferredLineName,
		Room:               t.Room,
		ProgramID:          t.ProgramID,
		ProgramCode:        t.ProgramCode,
		Label:              t.Label,
		ProgramName:        t.ProgramName,
		Category:           t.Category,
		Duration:           t.Duration,
		Price:              t.Price,
		Hosts:              t.Hosts,
		SecondAnimatorName: t.SecondAnimatorName,
		PinataFiller:       t.PinataFiller,
		KidsCount:          t.KidsCount,
		GroupName:          t.GroupName,
		Notes:              t.Notes,
		Status:             string(t.TargetStatus()),
		IsActive:           t.IsActive,
		CreatedBy:          t.CreatedBy,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}

	if t.EndDate != nil {
		endDate := t.EndDate.Format(domain.DateFormat)
		resp.EndDate = &endDate
	}

	return resp
}

// WithStats дополняет DTO сводкой по созданной серии
func (r *TemplateResponse) WithStats(activeBookings, skippedDates int, nextDate *time.Time) *TemplateResponse {
	r.ActiveBookings = activeBookings
	r.SkippedDates = skippedDates
	if nextDate != nil {
		d := nextDate.Format(domain.DateFormat)
		r.NextDate = &d
	}
	return r
}

// ToDomainTimeStart парсит время начала из строки запроса
func ToDomainTimeStart(s string) (types.TimeString, error) {
	ts := types.TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}
