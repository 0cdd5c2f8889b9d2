package domain

import (
	"time"

	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPreliminary BookingStatus = "preliminary"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusCancelled   BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is a known booking status
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPreliminary, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking represents a concrete reservation on an animator line
type Booking struct {
	ID       string // booking number BK-YYYY-NNNN
	Date     time.Time
	Time     types.TimeString
	LineID   string
	Duration int
	Status   BookingStatus

	// Program attributes, copied from the template at generation time
	ProgramID   int64
	ProgramCode *string
	Label       *string
	ProgramName *string
	Category    *string
	Price       *float64
	Hosts       int

	SecondAnimator *string
	PinataFiller   *string
	Room           *string
	Notes          *string
	KidsCount      *int
	GroupName      *string

	CreatedBy string

	// LinkedTo marks this booking as the secondary leg of a paired program;
	// it points to the primary booking's ID.
	LinkedTo *string

	// RecurringTemplateID is the back-reference to the originating template.
	// Manual bookings have none.
	RecurringTemplateID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsActive returns true if the booking occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsLinked returns true if the booking is the secondary leg of a paired program
func (b *Booking) IsLinked() bool {
	return b.LinkedTo != nil
}

// EndTime returns the end of the booking interval (start + duration)
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.Time.AddMinutes(b.Duration)
}

// DisplayName возвращает человекочитаемое имя программы для логов и уведомлений
func (b *Booking) DisplayName() string {
	if b.Label != nil && *b.Label != "" {
		return *b.Label
	}
	if b.ProgramName != nil && *b.ProgramName != "" {
		return *b.ProgramName
	}
	if b.ProgramCode != nil {
		return *b.ProgramCode
	}
	return ""
}
