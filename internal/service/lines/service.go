package lines

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	lineRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/line"
)

// Service сервис подбора линий аниматоров на дату
type Service struct {
	lineRepo LineRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса линий
func NewService(lineRepo LineRepository, logger Logger) *Service {
	return &Service{
		lineRepo: lineRepo,
		logger:   logger,
	}
}

// Resolve подбирает линию на дату по предпочтительному имени.
// Порядок: точное совпадение, инициализация стандартных линий для пустой даты
// с повторной попыткой, первая линия по стабильному порядку line_id.
// Возвращает nil без ошибки, когда подобрать линию невозможно.
func (s *Service) Resolve(ctx context.Context, date time.Time, preferredName string) (*domain.Line, error) {
	if preferredName != "" {
		line, err := s.lineRepo.GetByName(ctx, date, preferredName)
		if err == nil {
			return line, nil
		}
		if !errors.Is(err, lineRepo.ErrLineNotFound) {
			return nil, fmt.Errorf("%w: Resolve - lookup by name: %v", ErrInternal, err)
		}
	}

	count, err := s.lineRepo.CountForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: Resolve - count lines: %v", ErrInternal, err)
	}

	if count == 0 {
		if err := s.EnsureDefaults(ctx, date); err != nil {
			return nil, err
		}
		if preferredName != "" {
			line, err := s.lineRepo.GetByName(ctx, date, preferredName)
			if err == nil {
				return line, nil
			}
			if !errors.Is(err, lineRepo.ErrLineNotFound) {
				return nil, fmt.Errorf("%w: Resolve - retry lookup by name: %v", ErrInternal, err)
			}
		}
	}

	line, err := s.lineRepo.FirstForDate(ctx, date)
	if err == nil {
		if preferredName != "" {
			s.logger.Warn("Resolve: line %q not found on %s, falling back to %q",
				preferredName, date.Format(domain.DateFormat), line.Name)
		}
		return line, nil
	}
	if errors.Is(err, lineRepo.ErrLineNotFound) {
		return nil, nil
	}

	return nil, fmt.Errorf("%w: Resolve - first line fallback: %v", ErrInternal, err)
}

// EnsureDefaults создает стандартные линии на дату, если их еще нет
func (s *Service) EnsureDefaults(ctx context.Context, date time.Time) error {
	dateStr := date.Format(domain.DateFormat)
	for _, def := range domain.DefaultLines {
		line := &domain.Line{
			Date:   date,
			LineID: def.IDPrefix + dateStr,
			Name:   def.Name,
			Color:  def.Color,
		}
		if err := s.lineRepo.Create(ctx, line); err != nil {
			return fmt.Errorf("%w: EnsureDefaults - create line %s: %v", ErrInternal, line.LineID, err)
		}
	}

	s.logger.Info("EnsureDefaults: provisioned %d default lines for %s",
		len(domain.DefaultLines), date.Format(domain.DateFormat))
	return nil
}
