package templates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	templateRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/template"
	"github.com/m04kA/PARK-RecurringService/internal/service/templates/models"
	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

type fakeTemplateRepo struct {
	templates map[int64]*domain.RecurringTemplate
	updated   *domain.RecurringTemplate
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id int64) (*domain.RecurringTemplate, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return nil, templateRepo.ErrTemplateNotFound
}

func (f *fakeTemplateRepo) List(_ context.Context) ([]*domain.RecurringTemplate, error) {
	list := make([]*domain.RecurringTemplate, 0, len(f.templates))
	for _, t := range f.templates {
		list = append(list, t)
	}
	return list, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, t *domain.RecurringTemplate) error {
	f.updated = t
	return nil
}

func (f *fakeTemplateRepo) SetActive(_ context.Context, id int64, active bool) error {
	t, ok := f.templates[id]
	if !ok {
		return templateRepo.ErrTemplateNotFound
	}
	t.IsActive = active
	return nil
}

type fakeBookingRepo struct {
	bookings  []*domain.Booking
	cancelled []string
}

func (f *fakeBookingRepo) ListByTemplate(_ context.Context, _ int64, _, _ *time.Time, primaryOnly bool) ([]*domain.Booking, error) {
	if !primaryOnly {
		return f.bookings, nil
	}
	primary := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.LinkedTo == nil {
			primary = append(primary, b)
		}
	}
	return primary, nil
}

func (f *fakeBookingRepo) CountActiveByTemplate(_ context.Context, _ int64) (int, error) {
	count := 0
	for _, b := range f.bookings {
		if b.Status != domain.StatusCancelled {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) NextActiveDate(_ context.Context, _ int64, from time.Time) (*time.Time, error) {
	var next *time.Time
	for _, b := range f.bookings {
		if b.Status == domain.StatusCancelled || b.Date.Before(from) {
			continue
		}
		if next == nil || b.Date.Before(*next) {
			d := b.Date
			next = &d
		}
	}
	return next, nil
}

func (f *fakeBookingRepo) ListActivePrimaryIDs(_ context.Context, _ int64, from time.Time) ([]string, error) {
	ids := make([]string, 0)
	for _, b := range f.bookings {
		if b.LinkedTo == nil && b.Status != domain.StatusCancelled && !b.Date.Before(from) {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (f *fakeBookingRepo) CancelWithLinked(_ context.Context, id string) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.ID == id || (b.LinkedTo != nil && *b.LinkedTo == id) {
			if b.Status != domain.StatusCancelled {
				b.Status = domain.StatusCancelled
				f.cancelled = append(f.cancelled, b.ID)
				n++
			}
		}
	}
	return n, nil
}

type fakeSkipRepo struct {
	count int
}

func (f *fakeSkipRepo) CountByTemplate(_ context.Context, _ int64) (int, error) {
	return f.count, nil
}

type fakeHistory struct {
	actions []string
}

func (f *fakeHistory) Create(_ context.Context, action, _ string, _ any) error {
	f.actions = append(f.actions, action)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func baseTemplate() *domain.RecurringTemplate {
	return &domain.RecurringTemplate{
		ID:          1,
		Pattern:     domain.PatternWeekly,
		DaysOfWeek:  []int{6},
		StartDate:   time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC),
		TimeStart:   "10:00",
		TimeEnd:     "11:00",
		Duration:    60,
		ProgramID:   42,
		ProgramName: strPtr("Квест"),
		Hosts:       1,
		IsActive:    true,
	}
}

type env struct {
	templates *fakeTemplateRepo
	bookings  *fakeBookingRepo
	skips     *fakeSkipRepo
	history   *fakeHistory
	svc       *Service
}

func newEnv(tmpl *domain.RecurringTemplate) *env {
	e := &env{
		templates: &fakeTemplateRepo{templates: map[int64]*domain.RecurringTemplate{}},
		bookings:  &fakeBookingRepo{},
		skips:     &fakeSkipRepo{},
		history:   &fakeHistory{},
	}
	if tmpl != nil {
		e.templates.templates[tmpl.ID] = tmpl
	}
	e.svc = NewService(e.templates, e.bookings, e.skips, e.history, nopLogger{})
	return e
}

var now = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func TestGet_WithStats(t *testing.T) {
	e := newEnv(baseTemplate())
	e.bookings.bookings = []*domain.Booking{
		{ID: "BK-2026-0001", Date: time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC), Status: domain.StatusPreliminary},
		{ID: "BK-2026-0002", Date: time.Date(2026, time.January, 24, 0, 0, 0, 0, time.UTC), Status: domain.StatusPreliminary},
	}
	e.skips.count = 3

	resp, err := e.svc.Get(context.Background(), 1, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 2, resp.ActiveBookings)
	assert.Equal(t, 3, resp.SkippedDates)
	require.NotNil(t, resp.NextDate)
	assert.Equal(t, "2026-01-17", *resp.NextDate)
}

func TestGet_NotFound(t *testing.T) {
	e := newEnv(nil)

	_, err := e.svc.Get(context.Background(), 99, now)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUpdate_PartialMerge(t *testing.T) {
	e := newEnv(baseTemplate())

	resp, err := e.svc.Update(context.Background(), 1, &models.UpdateTemplateRequest{
		TimeStart: strPtr("14:30"),
	}, "admin")
	require.NoError(t, err)

	require.NotNil(t, e.templates.updated)
	assert.Equal(t, types.TimeString("14:30"), e.templates.updated.TimeStart)
	assert.Equal(t, types.TimeString("15:30"), e.templates.updated.TimeEnd, "время окончания пересчитано")
	assert.Equal(t, 60, e.templates.updated.Duration, "непереданные поля не тронуты")
	assert.Equal(t, []int{6}, e.templates.updated.DaysOfWeek)
	assert.Equal(t, "14:30", resp.TimeStart)
	assert.Contains(t, e.history.actions, "recurring_template_updated")
}

func TestUpdate_DurationRecomputesEnd(t *testing.T) {
	e := newEnv(baseTemplate())

	_, err := e.svc.Update(context.Background(), 1, &models.UpdateTemplateRequest{
		Duration: intPtr(90),
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, types.TimeString("11:30"), e.templates.updated.TimeEnd)
}

func TestUpdate_Validation(t *testing.T) {
	cases := []struct {
		name string
		req  *models.UpdateTemplateRequest
	}{
		{"unknown pattern", &models.UpdateTemplateRequest{Pattern: strPtr("daily")}},
		{"day out of range", &models.UpdateTemplateRequest{DaysOfWeek: []int{0}}},
		{"zero interval", &models.UpdateTemplateRequest{IntervalWeeks: intPtr(0)}},
		{"bad start date", &models.UpdateTemplateRequest{StartDate: strPtr("03.01.2026")}},
		{"bad time", &models.UpdateTemplateRequest{TimeStart: strPtr("25:00")}},
		{"zero duration", &models.UpdateTemplateRequest{Duration: intPtr(0)}},
		{"zero hosts", &models.UpdateTemplateRequest{Hosts: intPtr(0)}},
		{"unknown status", &models.UpdateTemplateRequest{Status: strPtr("done")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(baseTemplate())
			_, err := e.svc.Update(context.Background(), 1, tc.req, "admin")
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, e.templates.updated)
		})
	}
}

func TestSetPaused(t *testing.T) {
	e := newEnv(baseTemplate())

	resp, err := e.svc.SetPaused(context.Background(), 1, true, "admin")
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Contains(t, e.history.actions, "recurring_template_paused")

	resp, err = e.svc.SetPaused(context.Background(), 1, false, "admin")
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.Contains(t, e.history.actions, "recurring_template_resumed")
}

func TestDeactivate_KeepBookings(t *testing.T) {
	e := newEnv(baseTemplate())
	e.bookings.bookings = []*domain.Booking{
		{ID: "BK-2026-0001", Date: time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC), Status: domain.StatusPreliminary},
	}

	cancelled, err := e.svc.Deactivate(context.Background(), 1, false, now, "admin")
	require.NoError(t, err)

	assert.Equal(t, int64(0), cancelled)
	assert.False(t, e.templates.templates[1].IsActive)
	assert.Empty(t, e.bookings.cancelled)
}

func TestDeactivate_CancelFuture(t *testing.T) {
	e := newEnv(baseTemplate())
	primaryID := "BK-2026-0002"
	e.bookings.bookings = []*domain.Booking{
		// прошедшее бронирование не трогается
		{ID: "BK-2026-0001", Date: time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), Status: domain.StatusPreliminary},
		{ID: primaryID, Date: time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC), Status: domain.StatusPreliminary},
		// парная половина отменяется вместе с первичным
		{ID: "BK-2026-0003", Date: time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC), Status: domain.StatusPreliminary, LinkedTo: &primaryID},
	}

	cancelled, err := e.svc.Deactivate(context.Background(), 1, true, now, "admin")
	require.NoError(t, err)

	assert.Equal(t, int64(2), cancelled)
	assert.ElementsMatch(t, []string{"BK-2026-0002", "BK-2026-0003"}, e.bookings.cancelled)
	assert.Equal(t, domain.StatusPreliminary, e.bookings.bookings[0].Status)
	assert.Contains(t, e.history.actions, "recurring_template_deactivated")
}

func TestCancelSeriesFuture_UnknownTemplate(t *testing.T) {
	e := newEnv(nil)

	_, err := e.svc.CancelSeriesFuture(context.Background(), 99, now, "admin")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestListSeries(t *testing.T) {
	e := newEnv(baseTemplate())
	e.bookings.bookings = []*domain.Booking{
		{ID: "BK-2026-0001", Date: time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC)},
	}

	bookings, err := e.svc.ListSeries(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	_, err = e.svc.ListSeries(context.Background(), 99, nil, nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
