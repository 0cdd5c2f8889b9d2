package create_template

import (
	"fmt"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// validateRequest проверяет входные данные и возвращает разобранные значения
func validateRequest(req *Request) (domain.PatternKind, time.Time, *time.Time, types.TimeString, error) {
	pattern := domain.PatternKind(req.Pattern)
	if !domain.ValidPattern(pattern) {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: unknown pattern %q", ErrInvalidInput, req.Pattern)
	}

	for _, d := range req.DaysOfWeek {
		if d < 1 || d > 7 {
			return "", time.Time{}, nil, "", fmt.Errorf("%w: day of week %d out of range", ErrInvalidInput, d)
		}
	}
	if pattern == domain.PatternBiweekly && req.IntervalWeeks > 1 && req.IntervalWeeks != 2 {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: biweekly pattern implies two week interval", ErrInvalidInput)
	}

	startDate, err := time.Parse(domain.DateFormat, req.StartDate)
	if err != nil {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: invalid start date %q", ErrInvalidInput, req.StartDate)
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *req.EndDate)
		if err != nil {
			return "", time.Time{}, nil, "", fmt.Errorf("%w: invalid end date %q", ErrInvalidInput, *req.EndDate)
		}
		if parsed.Before(startDate) {
			return "", time.Time{}, nil, "", fmt.Errorf("%w: end date before start date", ErrInvalidInput)
		}
		endDate = &parsed
	}

	timeStart := types.TimeString(req.TimeStart)
	if err := timeStart.Validate(); err != nil {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: invalid time start %q", ErrInvalidInput, req.TimeStart)
	}

	if req.ProgramID <= 0 {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: program id is required", ErrInvalidInput)
	}
	if req.Duration <= 0 {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if req.Status != nil && !domain.ValidBookingStatus(domain.BookingStatus(*req.Status)) {
		return "", time.Time{}, nil, "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	return pattern, startDate, endDate, timeStart, nil
}
