package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// LineCheck результат проверки линии на интервал времени
type LineCheck struct {
	// Overlap пересечение с существующим бронированием, блокирует создание
	Overlap bool
	// NoPause интервал соблюден, но пауза между программами меньше минимальной
	NoPause bool
	// ConflictWith бронирование, вызвавшее пересечение или нехватку паузы
	ConflictWith *domain.Booking
}

// Service сервис проверки конфликтов расписания
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса конфликтов
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CheckLine проверяет занятость линии на дату и интервал.
// Пересечение блокирует создание, нехватка паузы только предупреждает.
func (s *Service) CheckLine(ctx context.Context, date time.Time, lineID string, start types.TimeString, duration int) (*LineCheck, error) {
	startMin, endMin, err := intervalMinutes(start, duration)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.ListActiveForLine(ctx, date, lineID)
	if err != nil {
		return nil, fmt.Errorf("%w: CheckLine - list bookings: %v", ErrInternal, err)
	}

	result := &LineCheck{}
	for _, b := range existing {
		bStart, bEnd, err := intervalMinutes(b.Time, b.Duration)
		if err != nil {
			return nil, fmt.Errorf("%w: CheckLine - booking %s has invalid time: %v", ErrInternal, b.ID, err)
		}

		if startMin < bEnd && bStart < endMin {
			result.Overlap = true
			result.ConflictWith = b
			return result, nil
		}

		gap := startMin - bEnd
		if gap < 0 {
			gap = bStart - endMin
		}
		if gap < domain.MinPauseMinutes && !result.NoPause {
			result.NoPause = true
			result.ConflictWith = b
		}
	}

	return result, nil
}

// CheckRoom проверяет занятость комнаты на дату и интервал.
// Комната-заглушка для бронирований без зала не проверяется.
func (s *Service) CheckRoom(ctx context.Context, date time.Time, room string, start types.TimeString, duration int) (*domain.Booking, error) {
	if room == "" || room == domain.RoomUnspecified {
		return nil, nil
	}

	startMin, endMin, err := intervalMinutes(start, duration)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.ListActiveForRoom(ctx, date, room)
	if err != nil {
		return nil, fmt.Errorf("%w: CheckRoom - list bookings: %v", ErrInternal, err)
	}

	for _, b := range existing {
		bStart, bEnd, err := intervalMinutes(b.Time, b.Duration)
		if err != nil {
			return nil, fmt.Errorf("%w: CheckRoom - booking %s has invalid time: %v", ErrInternal, b.ID, err)
		}
		if startMin < bEnd && bStart < endMin {
			return b, nil
		}
	}

	return nil, nil
}

// CheckDuplicateProgram проверяет, идет ли та же программа в пересекающееся
// время на дату. Существующие анимационные бронирования не блокируют:
// анимация может идти параллельно на разных линиях.
func (s *Service) CheckDuplicateProgram(ctx context.Context, date time.Time, programID int64, start types.TimeString, duration int) (*domain.Booking, error) {
	startMin, endMin, err := intervalMinutes(start, duration)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.ListActiveForProgram(ctx, date, programID)
	if err != nil {
		return nil, fmt.Errorf("%w: CheckDuplicateProgram - list bookings: %v", ErrInternal, err)
	}

	for _, b := range existing {
		if b.Category != nil && *b.Category == domain.CategoryAnimation {
			continue
		}
		bStart, bEnd, err := intervalMinutes(b.Time, b.Duration)
		if err != nil {
			return nil, fmt.Errorf("%w: CheckDuplicateProgram - booking %s has invalid time: %v", ErrInternal, b.ID, err)
		}
		if startMin < bEnd && bStart < endMin {
			return b, nil
		}
	}

	return nil, nil
}

// intervalMinutes переводит интервал в минуты от начала суток
func intervalMinutes(start types.TimeString, duration int) (int, int, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	if duration <= 0 {
		return 0, 0, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInterval, duration)
	}
	return startMin, startMin + duration, nil
}
