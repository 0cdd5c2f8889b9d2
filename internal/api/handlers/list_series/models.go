package list_series

import (
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// BookingResponse бронирование серии в ответе API
type BookingResponse struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	LineID         string    `json:"lineId"`
	Duration       int       `json:"duration"`
	Status         string    `json:"status"`
	ProgramID      int64     `json:"programId"`
	ProgramName    *string   `json:"programName,omitempty"`
	Room           *string   `json:"room,omitempty"`
	SecondAnimator *string   `json:"secondAnimator,omitempty"`
	GroupName      *string   `json:"groupName,omitempty"`
	KidsCount      *int      `json:"kidsCount,omitempty"`
	LinkedTo       *string   `json:"linkedTo,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SeriesResponse ответ со списком бронирований серии
type SeriesResponse struct {
	TemplateID int64             `json:"templateId"`
	Bookings   []BookingResponse `json:"bookings"`
}

// CancelResponse итог отмены будущих бронирований серии
type CancelResponse struct {
	TemplateID int64 `json:"templateId"`
	Cancelled  int64 `json:"cancelled"`
}

func fromDomainBookings(templateID int64, bookings []*domain.Booking) *SeriesResponse {
	resp := &SeriesResponse{
		TemplateID: templateID,
		Bookings:   make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, BookingResponse{
			ID:             b.ID,
			Date:           b.Date.Format(domain.DateFormat),
			Time:           string(b.Time),
			LineID:         b.LineID,
			Duration:       b.Duration,
			Status:         string(b.Status),
			ProgramID:      b.ProgramID,
			ProgramName:    b.ProgramName,
			Room:           b.Room,
			SecondAnimator: b.SecondAnimator,
			GroupName:      b.GroupName,
			KidsCount:      b.KidsCount,
			LinkedTo:       b.LinkedTo,
			CreatedAt:      b.CreatedAt,
		})
	}

	return resp
}
