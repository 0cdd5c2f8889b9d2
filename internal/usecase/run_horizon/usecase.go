package run_horizon

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	settingsRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/settings"
	templateRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/template"
	"github.com/m04kA/PARK-RecurringService/internal/usecase/generate_bookings"
	"github.com/m04kA/PARK-RecurringService/pkg/txmanager"
)

// UseCase драйвер горизонта: прогоняет движок генерации по всем активным
// шаблонам в скользящем окне дат. Ошибка генерации одного шаблона
// логируется и не прерывает обработку остальных; исключение — отказ
// открыть транзакцию, он прерывает весь прогон.
type UseCase struct {
	templateRepo TemplateRepository
	settings     SettingsRepository
	generator    Generator
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр драйвера горизонта
func NewUseCase(
	templateRepo TemplateRepository,
	settings SettingsRepository,
	generator Generator,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo: templateRepo,
		settings:     settings,
		generator:    generator,
		location:     location,
		logger:       logger,
	}
}

// RunAll запускает генерацию с горизонтом из настроек.
// Используется планировщиком ежедневного запуска.
func (uc *UseCase) RunAll(ctx context.Context) error {
	_, err := uc.GenerateAllActive(ctx, nil)
	return err
}

// GenerateAllActive генерирует бронирования по всем активным шаблонам.
// horizonDays nil означает горизонт из настроек, по умолчанию 14 дней.
func (uc *UseCase) GenerateAllActive(ctx context.Context, horizonDays *int) (*Summary, error) {
	horizon := uc.resolveHorizon(ctx, horizonDays)

	today := dateOnly(time.Now().In(uc.location))
	from := today
	to := today.AddDate(0, 0, horizon)

	summary := &Summary{
		HorizonDays: horizon,
		From:        from.Format(domain.DateFormat),
		To:          to.Format(domain.DateFormat),
	}

	templates, err := uc.templateRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: GenerateAllActive - list templates: %v", ErrInternal, err)
	}

	uc.logger.Info("RunHorizon: %d active templates, range %s..%s",
		len(templates), summary.From, summary.To)

	for _, template := range templates {
		result, err := uc.generator.Execute(ctx, template, from, to)
		if result != nil {
			summary.TotalCreated += result.Created
			summary.TotalSkipped += result.Skipped
			summary.PerTemplate = append(summary.PerTemplate, *result)
		}
		if err != nil {
			// Системный сбой БД: оставшиеся шаблоны упрутся в ту же
			// проблему, прогон прерывается целиком
			if errors.Is(err, txmanager.ErrBeginTx) {
				uc.logger.Error("RunHorizon: template=%d: aborting run: %v", template.ID, err)
				return nil, fmt.Errorf("%w: GenerateAllActive - begin transaction: %w", ErrInternal, err)
			}
			uc.logger.Error("RunHorizon: template=%d failed: %v", template.ID, err)
		}
	}

	uc.logger.Info("RunHorizon: done: created=%d skipped=%d", summary.TotalCreated, summary.TotalSkipped)
	return summary, nil
}

// GenerateForTemplate запускает генерацию по одному шаблону с явным диапазоном.
// Нулевые from и to означают окно настроенного горизонта от сегодня.
func (uc *UseCase) GenerateForTemplate(ctx context.Context, templateID int64, from, to time.Time) (*generate_bookings.Result, error) {
	template, err := uc.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("%w: GenerateForTemplate - fetch template: %v", ErrInternal, err)
	}

	today := dateOnly(time.Now().In(uc.location))
	if from.IsZero() {
		from = today
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, uc.resolveHorizon(ctx, nil))
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", ErrInvalidInput)
	}

	result, err := uc.generator.Execute(ctx, template, from, to)
	if err != nil {
		return result, fmt.Errorf("%w: GenerateForTemplate - generation failed: %v", ErrInternal, err)
	}

	return result, nil
}

// resolveHorizon берет горизонт из аргумента, настроек или значения по умолчанию
func (uc *UseCase) resolveHorizon(ctx context.Context, override *int) int {
	if override != nil && *override > 0 {
		return *override
	}

	value, err := uc.settings.Get(ctx, domain.SettingRecurringHorizon)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingNotFound) {
			uc.logger.Warn("RunHorizon: failed to read horizon setting: %v", err)
		}
		return domain.DefaultHorizonDays
	}

	horizon, err := strconv.Atoi(value)
	if err != nil || horizon <= 0 {
		uc.logger.Warn("RunHorizon: invalid horizon setting %q, using default", value)
		return domain.DefaultHorizonDays
	}

	return horizon
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
