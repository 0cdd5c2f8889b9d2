package generate_bookings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/internal/infra/events"
	"github.com/m04kA/PARK-RecurringService/internal/service/conflicts"
	"github.com/m04kA/PARK-RecurringService/pkg/txmanager"
	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// ---------------------------------------------------------------------------
// Фейки

type fakeBookingRepo struct {
	seq       int
	existing  map[string]bool // "templateID|date"
	created   []*domain.Booking
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{existing: make(map[string]bool)}
}

func (f *fakeBookingRepo) NextNumber(_ context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("BK-2026-%04d", f.seq), nil
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBookingRepo) ExistsForTemplateDate(_ context.Context, templateID int64, date time.Time) (bool, error) {
	return f.existing[fmt.Sprintf("%d|%s", templateID, date.Format(domain.DateFormat))], nil
}

type fakeSkipLedger struct {
	records map[string]domain.SkipReason // "templateID|date"
}

func newFakeSkipLedger() *fakeSkipLedger {
	return &fakeSkipLedger{records: make(map[string]domain.SkipReason)}
}

func ledgerKey(templateID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", templateID, date.Format(domain.DateFormat))
}

func (f *fakeSkipLedger) Has(_ context.Context, templateID int64, date time.Time) (bool, error) {
	_, ok := f.records[ledgerKey(templateID, date)]
	return ok, nil
}

func (f *fakeSkipLedger) Upsert(_ context.Context, templateID int64, date time.Time, reason domain.SkipReason, _ string) error {
	f.records[ledgerKey(templateID, date)] = reason
	return nil
}

type fakeLineResolver struct {
	byName map[string]*domain.Line // имя -> линия; "" = линия по умолчанию
}

func (f *fakeLineResolver) Resolve(_ context.Context, _ time.Time, preferredName string) (*domain.Line, error) {
	if line, ok := f.byName[preferredName]; ok {
		return line, nil
	}
	return f.byName[""], nil
}

type fakeConflictChecker struct {
	lineChecks map[string]*conflicts.LineCheck // lineID -> результат
	roomBusy   *domain.Booking
}

func (f *fakeConflictChecker) CheckLine(_ context.Context, _ time.Time, lineID string, _ types.TimeString, _ int) (*conflicts.LineCheck, error) {
	if check, ok := f.lineChecks[lineID]; ok {
		return check, nil
	}
	return &conflicts.LineCheck{}, nil
}

func (f *fakeConflictChecker) CheckRoom(_ context.Context, _ time.Time, _ string, _ types.TimeString, _ int) (*domain.Booking, error) {
	return f.roomBusy, nil
}

type fakeStaff struct {
	unavailable map[string]bool
}

func (f *fakeStaff) IsAvailable(_ context.Context, name string, _ time.Time) bool {
	return !f.unavailable[name]
}

type fakeHistory struct {
	actions []string
}

func (f *fakeHistory) Create(_ context.Context, action, _ string, _ any) error {
	f.actions = append(f.actions, action)
	return nil
}

// inlineTxManager исполняет функцию без настоящей транзакции
type inlineTxManager struct {
	beginErr bool
}

func (m *inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr {
		return fmt.Errorf("%w: connection refused", txmanager.ErrBeginTx)
	}
	return fn(ctx)
}

type fakePublisher struct {
	published []events.BookingCreatedEvent
	err       error
}

func (f *fakePublisher) Publish(e events.BookingCreatedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, e)
	return nil
}

type fakeAutomation struct {
	seen []string
}

func (f *fakeAutomation) OnBookingCreated(_ context.Context, b *domain.Booking) {
	f.seen = append(f.seen, b.ID)
}

type fakeMetrics struct {
	generated map[string]int
	skipped   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{generated: make(map[string]int), skipped: make(map[string]int)}
}

func (f *fakeMetrics) IncGenerated(pattern string) { f.generated[pattern]++ }
func (f *fakeMetrics) IncSkipped(reason string)    { f.skipped[reason]++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// ---------------------------------------------------------------------------
// Сборка окружения

type env struct {
	bookings  *fakeBookingRepo
	ledger    *fakeSkipLedger
	lines     *fakeLineResolver
	conflicts *fakeConflictChecker
	staff     *fakeStaff
	history   *fakeHistory
	tx        *inlineTxManager
	publisher *fakePublisher
	metrics   *fakeMetrics
	uc        *UseCase
}

func newEnv() *env {
	e := &env{
		bookings: newFakeBookingRepo(),
		ledger:   newFakeSkipLedger(),
		lines: &fakeLineResolver{byName: map[string]*domain.Line{
			"": {LineID: "line1_x", Name: "Аніматор 1"},
		}},
		conflicts: &fakeConflictChecker{lineChecks: make(map[string]*conflicts.LineCheck)},
		staff:     &fakeStaff{unavailable: make(map[string]bool)},
		history:   &fakeHistory{},
		tx:        &inlineTxManager{},
		publisher: &fakePublisher{},
		metrics:   newFakeMetrics(),
	}
	e.uc = NewUseCase(
		e.bookings, e.ledger, e.lines, e.conflicts, e.staff,
		e.history, e.tx, e.publisher, e.metrics, time.UTC, nopLogger{},
	)
	return e
}

func strPtr(s string) *string { return &s }

// еженедельный шаблон по понедельникам; 2026-01-05 понедельник
func weeklyTemplate() *domain.RecurringTemplate {
	return &domain.RecurringTemplate{
		ID:          7,
		Pattern:     domain.PatternWeekly,
		DaysOfWeek:  []int{1},
		StartDate:   time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		TimeStart:   "10:00",
		Duration:    60,
		ProgramID:   42,
		ProgramName: strPtr("Квест"),
		Hosts:       1,
		IsActive:    true,
	}
}

var (
	from = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
)

// ---------------------------------------------------------------------------

func TestExecute_CreatesBookingsOnMatchingDates(t *testing.T) {
	e := newEnv()

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created, "два понедельника в диапазоне")
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, e.bookings.created, 2)

	b := e.bookings.created[0]
	assert.Equal(t, "BK-2026-0001", b.ID)
	assert.Equal(t, types.TimeString("10:00"), b.Time)
	assert.Equal(t, "line1_x", b.LineID)
	assert.Equal(t, domain.SystemUser, b.CreatedBy)
	require.NotNil(t, b.RecurringTemplateID)
	assert.Equal(t, int64(7), *b.RecurringTemplateID)
	assert.Equal(t, domain.StatusPreliminary, b.Status)

	assert.Len(t, e.publisher.published, 2)
	assert.Len(t, e.history.actions, 2)
	assert.Equal(t, 2, e.metrics.generated["weekly"])
}

func TestExecute_Idempotent(t *testing.T) {
	e := newEnv()
	tmpl := weeklyTemplate()

	_, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)
	for _, b := range e.bookings.created {
		e.bookings.existing[fmt.Sprintf("%d|%s", tmpl.ID, b.Date.Format(domain.DateFormat))] = true
	}

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Existing)
	assert.Equal(t, 2, result.Skipped, "обработанные даты отчитываются как пропуски")
	assert.Len(t, e.bookings.created, 2, "повторный прогон ничего не добавил")
}

func TestExecute_SkipLedgerHonored(t *testing.T) {
	e := newEnv()
	tmpl := weeklyTemplate()
	require.NoError(t, e.ledger.Upsert(context.Background(), tmpl.ID, from, domain.SkipManual, "вихідний"))

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created, "вторая дата не затронута")
	assert.Equal(t, 1, result.Skipped, "дата из журнала идет в счетчик пропусков")
	assert.Len(t, result.Conflicts, 0, "повторной записи причины нет")
	assert.Equal(t, 0, e.metrics.skipped[string(domain.SkipManual)], "метрика считает только новые пропуски")
}

func TestExecute_NoLine(t *testing.T) {
	e := newEnv()
	e.lines.byName = map[string]*domain.Line{} // линий нет вовсе

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
	require.NotEmpty(t, result.Conflicts)
	assert.Equal(t, domain.SkipNoLine, result.Conflicts[0].Reason)
	assert.Equal(t, domain.SkipNoLine, e.ledger.records[ledgerKey(7, from)], "причина записана в журнал")
	assert.Equal(t, 2, e.metrics.skipped["no_line"])
}

func TestExecute_LineConflict(t *testing.T) {
	e := newEnv()
	e.conflicts.lineChecks["line1_x"] = &conflicts.LineCheck{
		Overlap:      true,
		ConflictWith: &domain.Booking{ID: "BK-2026-0999", Time: "10:00", Duration: 60},
	}

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, domain.SkipLineConflict, result.Conflicts[0].Reason)
	assert.Empty(t, e.bookings.created, "транзакция откатила вставку")
	assert.Empty(t, e.publisher.published)
}

func TestExecute_NoPauseWarning(t *testing.T) {
	e := newEnv()
	e.conflicts.lineChecks["line1_x"] = &conflicts.LineCheck{
		NoPause:      true,
		ConflictWith: &domain.Booking{ID: "BK-2026-0999", Time: "09:00", Duration: 60},
	}

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created, "нехватка паузы не блокирует создание")
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "no_pause", result.Warnings[0].Reason)
}

func TestExecute_RoomConflict(t *testing.T) {
	e := newEnv()
	e.conflicts.roomBusy = &domain.Booking{ID: "BK-2026-0999"}

	tmpl := weeklyTemplate()
	tmpl.Room = strPtr("Зал 1")

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, domain.SkipRoomConflict, result.Conflicts[0].Reason)
}

func TestExecute_AnimatorUnavailable(t *testing.T) {
	e := newEnv()
	e.staff.unavailable["Олена"] = true

	tmpl := weeklyTemplate()
	tmpl.PreferredLineName = strPtr("Олена")

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, domain.SkipAnimatorUnavailable, result.Conflicts[0].Reason)
}

func TestExecute_PairedProgram(t *testing.T) {
	e := newEnv()
	e.lines.byName["Олена"] = &domain.Line{LineID: "line1_x", Name: "Олена"}
	e.lines.byName["Ірина"] = &domain.Line{LineID: "line2_x", Name: "Ірина"}

	tmpl := weeklyTemplate()
	tmpl.PreferredLineName = strPtr("Олена")
	tmpl.Hosts = 2
	tmpl.SecondAnimatorName = strPtr("Ірина")

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created, "пара считается одним созданием")
	require.Len(t, e.bookings.created, 4, "две даты по два бронирования")

	primary, second := e.bookings.created[0], e.bookings.created[1]
	assert.Nil(t, primary.LinkedTo)
	require.NotNil(t, second.LinkedTo)
	assert.Equal(t, primary.ID, *second.LinkedTo)
	assert.NotEqual(t, primary.LineID, second.LineID)

	assert.Len(t, e.publisher.published, 4, "событие на каждое созданное бронирование")
}

func TestExecute_PairedConflictRollsBackPrimary(t *testing.T) {
	e := newEnv()
	e.lines.byName["Олена"] = &domain.Line{LineID: "line1_x", Name: "Олена"}
	e.lines.byName["Ірина"] = &domain.Line{LineID: "line2_x", Name: "Ірина"}
	e.conflicts.lineChecks["line2_x"] = &conflicts.LineCheck{
		Overlap:      true,
		ConflictWith: &domain.Booking{ID: "BK-2026-0999", Time: "10:00", Duration: 60},
	}

	tmpl := weeklyTemplate()
	tmpl.PreferredLineName = strPtr("Олена")
	tmpl.Hosts = 2
	tmpl.SecondAnimatorName = strPtr("Ірина")

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, domain.SkipSecondAnimatorConflict, result.Conflicts[0].Reason)
	assert.Empty(t, e.publisher.published, "откат пары не публикует событий")
}

func TestExecute_PairedSameLineIsConflict(t *testing.T) {
	e := newEnv()
	e.lines.byName["Олена"] = &domain.Line{LineID: "line1_x", Name: "Олена"}
	// второй аниматор разрешается в ту же линию

	tmpl := weeklyTemplate()
	tmpl.PreferredLineName = strPtr("Олена")
	tmpl.Hosts = 2
	tmpl.SecondAnimatorName = strPtr("Невідома")

	result, err := e.uc.Execute(context.Background(), tmpl, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, domain.SkipSecondAnimatorConflict, result.Conflicts[0].Reason)
}

func TestExecute_InsertErrorContinuesRun(t *testing.T) {
	e := newEnv()
	e.bookings.createErr = errors.New("constraint violation")

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err, "ошибка даты не прерывает прогон")

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, domain.SkipError, result.Conflicts[0].Reason)
}

func TestExecute_BeginTxAbortsRun(t *testing.T) {
	e := newEnv()
	e.tx.beginErr = true

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, txmanager.ErrBeginTx, "причина различима для драйвера горизонта")
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Skipped, "системная ошибка не пишется в журнал пропусков")
	assert.Empty(t, e.ledger.records)
}

func TestExecute_PublishFailureDoesNotFail(t *testing.T) {
	e := newEnv()
	e.publisher.err = errors.New("nats down")

	result, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
}

func TestExecute_AutomationNotified(t *testing.T) {
	e := newEnv()
	auto := &fakeAutomation{}
	e.uc.SetAutomation(auto)

	_, err := e.uc.Execute(context.Background(), weeklyTemplate(), from, to)
	require.NoError(t, err)

	assert.Equal(t, []string{"BK-2026-0001", "BK-2026-0002"}, auto.seen)
}

func TestExecute_OutOfPatternDatesIgnored(t *testing.T) {
	e := newEnv()
	tmpl := weeklyTemplate()

	// диапазон без единого понедельника
	result, err := e.uc.Execute(context.Background(), tmpl,
		time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, e.bookings.created)
}
