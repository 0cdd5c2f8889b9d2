package create_template

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	settingsRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/settings"
	"github.com/m04kA/PARK-RecurringService/internal/service/templates/models"
)

// UseCase use case создания шаблона с немедленной генерацией серии.
// Шаблон сначала сохраняется, затем движок разворачивает его в бронирования
// на настроенный горизонт. Ошибка генерации не откатывает созданный шаблон:
// серию доберет ежедневный запуск планировщика.
type UseCase struct {
	templateRepo TemplateRepository
	settings     SettingsRepository
	generator    Generator
	historyRepo  HistoryRepository
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templateRepo TemplateRepository,
	settings SettingsRepository,
	generator Generator,
	historyRepo HistoryRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo: templateRepo,
		settings:     settings,
		generator:    generator,
		historyRepo:  historyRepo,
		location:     location,
		logger:       logger,
	}
}

// Execute выполняет use case создания шаблона
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateTemplate: pattern=%s, program=%d, start=%s, time=%s by %s",
		req.Pattern, req.ProgramID, req.StartDate, req.TimeStart, req.Username)

	pattern, startDate, endDate, timeStart, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateTemplate: validation failed: %v", err)
		return nil, err
	}

	hosts := req.Hosts
	if hosts < 1 {
		hosts = 1
	}
	intervalWeeks := req.IntervalWeeks
	if intervalWeeks < 1 {
		intervalWeeks = 1
	}
	if pattern == domain.PatternBiweekly {
		intervalWeeks = 2
	}

	timeEnd, err := timeStart.AddMinutes(req.Duration)
	if err != nil {
		return nil, fmt.Errorf("%w: compute time end: %v", ErrInvalidInput, err)
	}

	template := &domain.RecurringTemplate{
		Pattern:            pattern,
		DaysOfWeek:         req.DaysOfWeek,
		IntervalWeeks:      intervalWeeks,
		MonthlyRule:        req.MonthlyRule,
		StartDate:          startDate,
		EndDate:            endDate,
		TimeStart:          timeStart,
		TimeEnd:            timeEnd,
		PreferredLineName:  req.PreferredLineName,
		Room:               req.Room,
		ProgramID:          req.ProgramID,
		ProgramCode:        req.ProgramCode,
		Label:              req.Label,
		ProgramName:        req.ProgramName,
		Category:           req.Category,
		Duration:           req.Duration,
		Price:              req.Price,
		Hosts:              hosts,
		SecondAnimatorName: req.SecondAnimatorName,
		PinataFiller:       req.PinataFiller,
		KidsCount:          req.KidsCount,
		GroupName:          req.GroupName,
		Notes:              req.Notes,
		IsActive:           true,
		CreatedBy:          req.Username,
	}
	if req.Status != nil {
		template.Status = domain.BookingStatus(*req.Status)
	}

	created, err := uc.templateRepo.Create(ctx, template)
	if err != nil {
		uc.logger.Error("CreateTemplate: failed to create template: %v", err)
		return nil, fmt.Errorf("%w: failed to create template: %v", ErrInternal, err)
	}

	if err := uc.historyRepo.Create(ctx, "recurring_template_created", req.Username, map[string]any{
		"template_id":   created.ID,
		"template_name": created.DisplayName(),
		"pattern":       string(created.Pattern),
		"start_date":    created.StartDate.Format(domain.DateFormat),
	}); err != nil {
		uc.logger.Warn("CreateTemplate: failed to write history for template=%d: %v", created.ID, err)
	}

	resp := &Response{Template: models.FromDomainTemplate(created)}

	// Немедленная генерация на горизонт от даты старта или от сегодня
	from := dateOnly(time.Now().In(uc.location))
	if created.StartDate.After(from) {
		from = created.StartDate
	}
	to := dateOnly(time.Now().In(uc.location)).AddDate(0, 0, uc.resolveHorizon(ctx))

	if !to.Before(from) {
		result, err := uc.generator.Execute(ctx, created, from, to)
		if err != nil {
			uc.logger.Error("CreateTemplate: eager generation failed for template=%d: %v", created.ID, err)
		}
		resp.Generation = result
	}

	uc.logger.Info("CreateTemplate: template=%d created", created.ID)
	return resp, nil
}

func (uc *UseCase) resolveHorizon(ctx context.Context) int {
	value, err := uc.settings.Get(ctx, domain.SettingRecurringHorizon)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingNotFound) {
			uc.logger.Warn("CreateTemplate: failed to read horizon setting: %v", err)
		}
		return domain.DefaultHorizonDays
	}

	horizon, err := strconv.Atoi(value)
	if err != nil || horizon <= 0 {
		return domain.DefaultHorizonDays
	}

	return horizon
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
