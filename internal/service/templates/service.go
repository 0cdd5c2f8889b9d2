package templates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	templateRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/template"
	"github.com/m04kA/PARK-RecurringService/internal/service/templates/models"
)

// Service сервис управления шаблонами повторяющихся бронирований
type Service struct {
	templateRepo TemplateRepository
	bookingRepo  BookingRepository
	skipRepo     SkipRepository
	historyRepo  HistoryRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса шаблонов
func NewService(
	templateRepo TemplateRepository,
	bookingRepo BookingRepository,
	skipRepo SkipRepository,
	historyRepo HistoryRepository,
	logger Logger,
) *Service {
	return &Service{
		templateRepo: templateRepo,
		bookingRepo:  bookingRepo,
		skipRepo:     skipRepo,
		historyRepo:  historyRepo,
		logger:       logger,
	}
}

// Get получает шаблон со сводкой по серии
func (s *Service) Get(ctx context.Context, id int64, now time.Time) (*models.TemplateResponse, error) {
	template, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.withStats(ctx, template, now)
}

// List получает все шаблоны со сводками по сериям
func (s *Service) List(ctx context.Context, now time.Time) (*models.TemplateListResponse, error) {
	list, err := s.templateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.TemplateListResponse{Templates: make([]models.TemplateResponse, 0, len(list))}
	for _, t := range list {
		item, err := s.withStats(ctx, t, now)
		if err != nil {
			return nil, err
		}
		resp.Templates = append(resp.Templates, *item)
	}

	return resp, nil
}

// Update частично обновляет шаблон. Обновляются только переданные поля,
// время окончания пересчитывается при смене времени начала или длительности.
// Уже созданные бронирования не трогаются, изменения влияют на будущую генерацию.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateTemplateRequest, username string) (*models.TemplateResponse, error) {
	s.logger.Info("Update: updating template=%d by %s", id, username)

	template, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(template, req); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := s.historyRepo.Create(ctx, "recurring_template_updated", username, map[string]any{
		"template_id":   id,
		"template_name": template.DisplayName(),
	}); err != nil {
		s.logger.Warn("Update: failed to write history for template=%d: %v", id, err)
	}

	s.logger.Info("Update: template=%d updated", id)
	return s.withStats(ctx, template, time.Now())
}

// SetPaused приостанавливает или возобновляет генерацию по шаблону.
// Созданные бронирования остаются как есть.
func (s *Service) SetPaused(ctx context.Context, id int64, paused bool, username string) (*models.TemplateResponse, error) {
	template, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.SetActive(ctx, id, !paused); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("%w: SetPaused - repository error: %v", ErrInternal, err)
	}
	template.IsActive = !paused

	action := "recurring_template_paused"
	if !paused {
		action = "recurring_template_resumed"
	}
	if err := s.historyRepo.Create(ctx, action, username, map[string]any{
		"template_id":   id,
		"template_name": template.DisplayName(),
	}); err != nil {
		s.logger.Warn("SetPaused: failed to write history for template=%d: %v", id, err)
	}

	s.logger.Info("SetPaused: template=%d paused=%v", id, paused)
	return s.withStats(ctx, template, time.Now())
}

// Deactivate выключает шаблон. При cancelFuture отменяются все активные
// бронирования серии начиная с from вместе со связанными, прошедшие даты
// остаются нетронутыми.
func (s *Service) Deactivate(ctx context.Context, id int64, cancelFuture bool, from time.Time, username string) (int64, error) {
	s.logger.Info("Deactivate: deactivating template=%d, cancelFuture=%v by %s", id, cancelFuture, username)

	template, err := s.fetch(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.templateRepo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return 0, ErrTemplateNotFound
		}
		return 0, fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	var cancelled int64
	if cancelFuture {
		cancelled, err = s.CancelSeriesFuture(ctx, id, from, username)
		if err != nil {
			return 0, err
		}
	}

	if err := s.historyRepo.Create(ctx, "recurring_template_deactivated", username, map[string]any{
		"template_id":   id,
		"template_name": template.DisplayName(),
		"cancelled":     cancelled,
	}); err != nil {
		s.logger.Warn("Deactivate: failed to write history for template=%d: %v", id, err)
	}

	s.logger.Info("Deactivate: template=%d deactivated, %d bookings cancelled", id, cancelled)
	return cancelled, nil
}

// ListSeries получает бронирования серии за период, включая связанные
func (s *Service) ListSeries(ctx context.Context, id int64, from, to *time.Time) ([]*domain.Booking, error) {
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByTemplate(ctx, id, from, to, false)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSeries - repository error: %v", ErrInternal, err)
	}

	return bookings, nil
}

// CancelSeriesFuture отменяет будущие бронирования серии вместе со связанными.
// Отмена идет по первичным бронированиям, чтобы парные отменялись атомарно.
func (s *Service) CancelSeriesFuture(ctx context.Context, id int64, from time.Time, username string) (int64, error) {
	if _, err := s.fetch(ctx, id); err != nil {
		return 0, err
	}

	ids, err := s.bookingRepo.ListActivePrimaryIDs(ctx, id, from)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelSeriesFuture - list bookings: %v", ErrInternal, err)
	}

	var total int64
	for _, bookingID := range ids {
		n, err := s.bookingRepo.CancelWithLinked(ctx, bookingID)
		if err != nil {
			return total, fmt.Errorf("%w: CancelSeriesFuture - cancel booking %s: %v", ErrInternal, bookingID, err)
		}
		total += n
	}

	s.logger.Info("CancelSeriesFuture: template=%d cancelled %d bookings from %s by %s",
		id, total, from.Format(domain.DateFormat), username)
	return total, nil
}

func (s *Service) fetch(ctx context.Context, id int64) (*domain.RecurringTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("%w: fetch template: %v", ErrInternal, err)
	}
	return template, nil
}

func (s *Service) withStats(ctx context.Context, t *domain.RecurringTemplate, now time.Time) (*models.TemplateResponse, error) {
	active, err := s.bookingRepo.CountActiveByTemplate(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: count bookings for template=%d: %v", ErrInternal, t.ID, err)
	}

	skipped, err := s.skipRepo.CountByTemplate(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: count skips for template=%d: %v", ErrInternal, t.ID, err)
	}

	nextDate, err := s.bookingRepo.NextActiveDate(ctx, t.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: next date for template=%d: %v", ErrInternal, t.ID, err)
	}

	return models.FromDomainTemplate(t).WithStats(active, skipped, nextDate), nil
}

func (s *Service) applyUpdate(t *domain.RecurringTemplate, req *models.UpdateTemplateRequest) error {
	if req.Pattern != nil {
		pattern := domain.PatternKind(*req.Pattern)
		if !domain.ValidPattern(pattern) {
			return fmt.Errorf("%w: unknown pattern %q", ErrInvalidInput, *req.Pattern)
		}
		t.Pattern = pattern
	}
	if req.DaysOfWeek != nil {
		for _, d := range req.DaysOfWeek {
			if d < 1 || d > 7 {
				return fmt.Errorf("%w: day of week %d out of range", ErrInvalidInput, d)
			}
		}
		t.DaysOfWeek = req.DaysOfWeek
	}
	if req.IntervalWeeks != nil {
		if *req.IntervalWeeks < 1 {
			return fmt.Errorf("%w: interval weeks must be positive", ErrInvalidInput)
		}
		t.IntervalWeeks = *req.IntervalWeeks
	}
	if req.MonthlyRule != nil {
		t.MonthlyRule = req.MonthlyRule
	}

	if req.StartDate != nil {
		startDate, err := time.Parse(domain.DateFormat, *req.StartDate)
		if err != nil {
			return fmt.Errorf("%w: invalid start date %q", ErrInvalidInput, *req.StartDate)
		}
		t.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(domain.DateFormat, *req.EndDate)
		if err != nil {
			return fmt.Errorf("%w: invalid end date %q", ErrInvalidInput, *req.EndDate)
		}
		t.EndDate = &endDate
	}
	if req.TimeStart != nil {
		timeStart, err := models.ToDomainTimeStart(*req.TimeStart)
		if err != nil {
			return fmt.Errorf("%w: invalid time start %q", ErrInvalidInput, *req.TimeStart)
		}
		t.TimeStart = timeStart
	}

	if req.PreferredLineName != nil {
		t.PreferredLineName = req.PreferredLineName
	}
	if req.Room != nil {
		t.Room = req.Room
	}

	if req.Duration != nil {
		if *req.Duration <= 0 {
			return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
		}
		t.Duration = *req.Duration
	}
	if req.Price != nil {
		t.Price = req.Price
	}
	if req.Hosts != nil {
		if *req.Hosts < 1 {
			return fmt.Errorf("%w: hosts must be positive", ErrInvalidInput)
		}
		t.Hosts = *req.Hosts
	}

	if req.SecondAnimatorName != nil {
		t.SecondAnimatorName = req.SecondAnimatorName
	}
	if req.PinataFiller != nil {
		t.PinataFiller = req.PinataFiller
	}
	if req.KidsCount != nil {
		t.KidsCount = req.KidsCount
	}
	if req.GroupName != nil {
		t.GroupName = req.GroupName
	}
	if req.Notes != nil {
		t.Notes = req.Notes
	}

	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		if !domain.ValidBookingStatus(status) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		t.Status = status
	}

	// Время окончания выводится из времени начала и длительности
	timeEnd, err := t.TimeStart.AddMinutes(t.Duration)
	if err != nil {
		return fmt.Errorf("%w: compute time end: %v", ErrInvalidInput, err)
	}
	t.TimeEnd = timeEnd

	return nil
}
