package skips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	skipRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/skipledger"
	templateRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/template"
)

// Service сервис управления пропусками генерации
type Service struct {
	skipRepo     SkipRepository
	templateRepo TemplateRepository
	bookingRepo  BookingRepository
	historyRepo  HistoryRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса пропусков
func NewService(
	skipRepo SkipRepository,
	templateRepo TemplateRepository,
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	logger Logger,
) *Service {
	return &Service{
		skipRepo:     skipRepo,
		templateRepo: templateRepo,
		bookingRepo:  bookingRepo,
		historyRepo:  historyRepo,
		logger:       logger,
	}
}

// List получает записи о пропусках шаблона, новые даты первыми
func (s *Service) List(ctx context.Context, templateID int64) ([]*domain.SkipRecord, error) {
	if _, err := s.templateRepo.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("%w: List - fetch template: %v", ErrInternal, err)
	}

	records, err := s.skipRepo.ListByTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return records, nil
}

// CreateManual вручную помечает дату шаблона пропущенной.
// Уже созданное на эту дату бронирование отменяется вместе со связанным.
// Возвращает число отмененных бронирований.
func (s *Service) CreateManual(ctx context.Context, templateID int64, date time.Time, details, username string) (int64, error) {
	s.logger.Info("CreateManual: skipping template=%d on %s by %s", templateID, date.Format(domain.DateFormat), username)

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return 0, ErrTemplateNotFound
		}
		return 0, fmt.Errorf("%w: CreateManual - fetch template: %v", ErrInternal, err)
	}

	if err := s.skipRepo.Upsert(ctx, templateID, date, domain.SkipManual, details); err != nil {
		return 0, fmt.Errorf("%w: CreateManual - upsert skip: %v", ErrInternal, err)
	}

	cancelled, err := s.bookingRepo.CancelByTemplateOnDate(ctx, templateID, date)
	if err != nil {
		return 0, fmt.Errorf("%w: CreateManual - cancel bookings: %v", ErrInternal, err)
	}

	if err := s.historyRepo.Create(ctx, "recurring_skip_created", username, map[string]any{
		"template_id":   templateID,
		"template_name": template.DisplayName(),
		"date":          date.Format(domain.DateFormat),
		"details":       details,
		"cancelled":     cancelled,
	}); err != nil {
		s.logger.Warn("CreateManual: failed to write history for template=%d: %v", templateID, err)
	}

	s.logger.Info("CreateManual: template=%d date=%s skipped, %d bookings cancelled",
		templateID, date.Format(domain.DateFormat), cancelled)
	return cancelled, nil
}

// Remove удаляет запись о пропуске, возвращая дату генерации в оборот
func (s *Service) Remove(ctx context.Context, skipID int64, username string) (*domain.SkipRecord, error) {
	record, err := s.skipRepo.Delete(ctx, skipID)
	if err != nil {
		if errors.Is(err, skipRepo.ErrSkipNotFound) {
			return nil, ErrSkipNotFound
		}
		return nil, fmt.Errorf("%w: Remove - delete skip: %v", ErrInternal, err)
	}

	if err := s.historyRepo.Create(ctx, "recurring_skip_removed", username, map[string]any{
		"template_id": record.TemplateID,
		"date":        record.Date.Format(domain.DateFormat),
	}); err != nil {
		s.logger.Warn("Remove: failed to write history for skip=%d: %v", skipID, err)
	}

	s.logger.Info("Remove: skip=%d removed for template=%d date=%s",
		skipID, record.TemplateID, record.Date.Format(domain.DateFormat))
	return record, nil
}
