package generate_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/infra/events"
	"github.com/m04kA/PARK-RecurringService/pkg/daterange"
	"github.com/m04kA/PARK-RecurringService/pkg/ptr"
	"github.com/m04kA/PARK-RecurringService/pkg/txmanager"
)

// UseCase движок генерации бронирований по шаблону.
// Каждая пара (шаблон, дата) обрабатывается в собственной сериализуемой
// транзакции: неудача одной даты не влияет на остальные. Повторный запуск
// по тому же диапазону идемпотентен за счет проверки существующих
// бронирований и журнала пропусков.
type UseCase struct {
	bookingRepo BookingRepository
	skipLedger  SkipLedger
	lines       LineResolver
	conflicts   ConflictChecker
	staff       StaffClient
	historyRepo HistoryRepository
	txManager   TransactionManager
	publisher   EventPublisher
	automation  Automation
	metrics     Metrics
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр движка генерации.
// staff может быть nil, тогда график сотрудников не проверяется.
// metrics может быть nil, тогда счетчики не обновляются.
func NewUseCase(
	bookingRepo BookingRepository,
	skipLedger SkipLedger,
	lines LineResolver,
	conflicts ConflictChecker,
	staff StaffClient,
	historyRepo HistoryRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		skipLedger:  skipLedger,
		lines:       lines,
		conflicts:   conflicts,
		staff:       staff,
		historyRepo: historyRepo,
		txManager:   txManager,
		publisher:   publisher,
		metrics:     metrics,
		location:    location,
		logger:      logger,
	}
}

// SetAutomation подключает исполнителя правил автоматизации.
// Вызывается после конструктора, чтобы разорвать цикл инициализации.
func (uc *UseCase) SetAutomation(a Automation) {
	uc.automation = a
}

// Execute генерирует бронирования по шаблону в диапазоне дат включительно
func (uc *UseCase) Execute(ctx context.Context, template *domain.RecurringTemplate, from, to time.Time) (*Result, error) {
	result := &Result{
		TemplateID:   template.ID,
		TemplateName: template.DisplayName(),
	}

	uc.logger.Info("GenerateBookings: template=%d (%s), range %s..%s",
		template.ID, template.DisplayName(), from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	r := daterange.New(from, to, uc.location)
	for r.Next() {
		date := r.Date()

		if !template.ShouldRunOn(date) {
			continue
		}

		if err := uc.processDate(ctx, template, date, result); err != nil {
			// Невозможность открыть транзакцию означает системную проблему
			// с БД, продолжать перебор дат бессмысленно
			if errors.Is(err, txmanager.ErrBeginTx) {
				uc.logger.Error("GenerateBookings: template=%d: aborting run: %v", template.ID, err)
				return result, fmt.Errorf("%w: %w", ErrInternal, err)
			}
			return result, err
		}
	}

	uc.logger.Info("GenerateBookings: template=%d done: created=%d existing=%d skipped=%d",
		template.ID, result.Created, result.Existing, result.Skipped)
	return result, nil
}

// processDate проводит одну дату через все стадии генерации
func (uc *UseCase) processDate(ctx context.Context, template *domain.RecurringTemplate, date time.Time, result *Result) error {
	dateStr := date.Format(domain.DateFormat)

	exists, err := uc.bookingRepo.ExistsForTemplateDate(ctx, template.ID, date)
	if err != nil {
		return uc.recordSkip(ctx, template, date, domain.SkipError,
			fmt.Sprintf("dedup check failed: %v", err), result)
	}
	if exists {
		// Повторный прогон: уже обработанные даты отчитываются как пропуски
		result.Existing++
		result.Skipped++
		return nil
	}

	skipped, err := uc.skipLedger.Has(ctx, template.ID, date)
	if err != nil {
		return uc.recordSkip(ctx, template, date, domain.SkipError,
			fmt.Sprintf("skip ledger check failed: %v", err), result)
	}
	if skipped {
		result.Skipped++
		return nil
	}

	line, err := uc.lines.Resolve(ctx, date, ptr.Deref(template.PreferredLineName))
	if err != nil {
		return uc.recordSkip(ctx, template, date, domain.SkipError,
			fmt.Sprintf("line resolution failed: %v", err), result)
	}
	if line == nil {
		return uc.recordSkip(ctx, template, date, domain.SkipNoLine,
			fmt.Sprintf("no line available on %s", dateStr), result)
	}

	if uc.staff != nil {
		if name := ptr.Deref(template.PreferredLineName); name != "" && !uc.staff.IsAvailable(ctx, name, date) {
			return uc.recordSkip(ctx, template, date, domain.SkipAnimatorUnavailable,
				fmt.Sprintf("%s is not working on %s", name, dateStr), result)
		}
		if name := ptr.Deref(template.SecondAnimatorName); template.IsPaired() && !uc.staff.IsAvailable(ctx, name, date) {
			return uc.recordSkip(ctx, template, date, domain.SkipAnimatorUnavailable,
				fmt.Sprintf("second animator %s is not working on %s", name, dateStr), result)
		}
	}

	var (
		created []*domain.Booking
		noPause *Warning
	)

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]
		noPause = nil

		lineCheck, err := uc.conflicts.CheckLine(txCtx, date, line.LineID, template.TimeStart, template.Duration)
		if err != nil {
			return err
		}
		if lineCheck.Overlap {
			return skip(domain.SkipLineConflict, "line %s is busy at %s on %s (booking %s)",
				line.Name, template.TimeStart, dateStr, lineCheck.ConflictWith.ID)
		}
		if lineCheck.NoPause {
			noPause = &Warning{
				Date:   dateStr,
				Reason: "no_pause",
				Details: fmt.Sprintf("less than %d minutes before booking %s",
					domain.MinPauseMinutes, lineCheck.ConflictWith.ID),
			}
		}

		if room := ptr.Deref(template.Room); room != "" {
			conflictWith, err := uc.conflicts.CheckRoom(txCtx, date, room, template.TimeStart, template.Duration)
			if err != nil {
				return err
			}
			if conflictWith != nil {
				return skip(domain.SkipRoomConflict, "room %s is busy at %s on %s (booking %s)",
					room, template.TimeStart, dateStr, conflictWith.ID)
			}
		}

		primary, err := uc.insertInstance(txCtx, template, date, line.LineID, nil)
		if err != nil {
			return err
		}
		created = append(created, primary)

		if template.IsPaired() {
			second, err := uc.insertPaired(txCtx, template, date, primary)
			if err != nil {
				return err
			}
			created = append(created, second)
		}

		return uc.historyRepo.Create(txCtx, "recurring_booking_generated", domain.SystemUser, map[string]any{
			"template_id":   template.ID,
			"template_name": template.DisplayName(),
			"booking_id":    primary.ID,
			"date":          dateStr,
			"time":          string(template.TimeStart),
			"line_id":       line.LineID,
			"paired":        template.IsPaired(),
		})
	})

	if txErr != nil {
		var se *skipError
		if errors.As(txErr, &se) {
			return uc.recordSkip(ctx, template, date, se.reason, se.details, result)
		}
		if errors.Is(txErr, txmanager.ErrBeginTx) {
			return txErr
		}
		return uc.recordSkip(ctx, template, date, domain.SkipError, txErr.Error(), result)
	}

	result.Created++
	if noPause != nil {
		result.Warnings = append(result.Warnings, *noPause)
		uc.logger.Warn("GenerateBookings: template=%d date=%s: %s", template.ID, dateStr, noPause.Details)
	}
	if uc.metrics != nil {
		uc.metrics.IncGenerated(string(template.Pattern))
	}

	for _, b := range created {
		if uc.publisher != nil {
			if err := uc.publisher.Publish(events.NewBookingCreatedEvent(b)); err != nil {
				uc.logger.Error("GenerateBookings: failed to publish event for booking=%s: %v", b.ID, err)
			}
		}
		if uc.automation != nil {
			uc.automation.OnBookingCreated(ctx, b)
		}
	}

	return nil
}

// insertInstance создает бронирование с атрибутами, скопированными из шаблона
func (uc *UseCase) insertInstance(ctx context.Context, template *domain.RecurringTemplate, date time.Time, lineID string, linkedTo *string) (*domain.Booking, error) {
	number, err := uc.bookingRepo.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next booking number: %w", err)
	}

	booking := &domain.Booking{
		ID:                  number,
		Date:                date,
		Time:                template.TimeStart,
		LineID:              lineID,
		Duration:            template.Duration,
		Status:              template.TargetStatus(),
		ProgramID:           template.ProgramID,
		ProgramCode:         template.ProgramCode,
		Label:               template.Label,
		ProgramName:         template.ProgramName,
		Category:            template.Category,
		Price:               template.Price,
		Hosts:               template.Hosts,
		SecondAnimator:      template.SecondAnimatorName,
		PinataFiller:        template.PinataFiller,
		Room:                template.Room,
		Notes:               template.Notes,
		KidsCount:           template.KidsCount,
		GroupName:           template.GroupName,
		CreatedBy:           domain.SystemUser,
		LinkedTo:            linkedTo,
		RecurringTemplateID: &template.ID,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	return created, nil
}

// insertPaired создает вторую половину парной программы. Пара атомарна:
// конфликт второй линии откатывает и первичное бронирование.
func (uc *UseCase) insertPaired(ctx context.Context, template *domain.RecurringTemplate, date time.Time, primary *domain.Booking) (*domain.Booking, error) {
	secondName := ptr.Deref(template.SecondAnimatorName)
	dateStr := date.Format(domain.DateFormat)

	secondLine, err := uc.lines.Resolve(ctx, date, secondName)
	if err != nil {
		return nil, fmt.Errorf("resolve second line: %w", err)
	}
	if secondLine == nil || secondLine.LineID == primary.LineID {
		return nil, skip(domain.SkipSecondAnimatorConflict,
			"no distinct line for second animator %s on %s", secondName, dateStr)
	}

	lineCheck, err := uc.conflicts.CheckLine(ctx, date, secondLine.LineID, template.TimeStart, template.Duration)
	if err != nil {
		return nil, err
	}
	if lineCheck.Overlap {
		return nil, skip(domain.SkipSecondAnimatorConflict,
			"second line %s is busy at %s on %s (booking %s)",
			secondLine.Name, template.TimeStart, dateStr, lineCheck.ConflictWith.ID)
	}

	return uc.insertInstance(ctx, template, date, secondLine.LineID, &primary.ID)
}

// recordSkip пишет причину пропуска в журнал вне транзакции генерации
func (uc *UseCase) recordSkip(ctx context.Context, template *domain.RecurringTemplate, date time.Time, reason domain.SkipReason, details string, result *Result) error {
	dateStr := date.Format(domain.DateFormat)

	uc.logger.Warn("GenerateBookings: template=%d date=%s skipped (%s): %s",
		template.ID, dateStr, reason, details)

	if err := uc.skipLedger.Upsert(ctx, template.ID, date, reason, details); err != nil {
		uc.logger.Error("GenerateBookings: failed to record skip for template=%d date=%s: %v",
			template.ID, dateStr, err)
	}

	result.Skipped++
	result.Conflicts = append(result.Conflicts, SkipInfo{Date: dateStr, Reason: reason, Details: details})
	if uc.metrics != nil {
		uc.metrics.IncSkipped(string(reason))
	}

	return nil
}
