package skips

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	skipRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/skipledger"
	templateRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/template"
)

type fakeSkipRepo struct {
	records []*domain.SkipRecord
	nextID  int64
}

func (f *fakeSkipRepo) Upsert(_ context.Context, templateID int64, date time.Time, reason domain.SkipReason, details string) error {
	for _, r := range f.records {
		if r.TemplateID == templateID && r.Date.Equal(date) {
			r.Reason = reason
			r.Details = details
			return nil
		}
	}
	f.nextID++
	f.records = append(f.records, &domain.SkipRecord{
		ID: f.nextID, TemplateID: templateID, Date: date, Reason: reason, Details: details,
	})
	return nil
}

func (f *fakeSkipRepo) ListByTemplate(_ context.Context, templateID int64) ([]*domain.SkipRecord, error) {
	out := make([]*domain.SkipRecord, 0)
	for _, r := range f.records {
		if r.TemplateID == templateID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSkipRepo) Delete(_ context.Context, id int64) (*domain.SkipRecord, error) {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return r, nil
		}
	}
	return nil, skipRepo.ErrSkipNotFound
}

type fakeTemplateRepo struct {
	known map[int64]bool
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id int64) (*domain.RecurringTemplate, error) {
	if f.known[id] {
		return &domain.RecurringTemplate{ID: id}, nil
	}
	return nil, templateRepo.ErrTemplateNotFound
}

type fakeBookingRepo struct {
	cancelled int64
}

func (f *fakeBookingRepo) CancelByTemplateOnDate(_ context.Context, _ int64, _ time.Time) (int64, error) {
	return f.cancelled, nil
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

var testDate = time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC)

type env struct {
	skips     *fakeSkipRepo
	templates *fakeTemplateRepo
	bookings  *fakeBookingRepo
	history   *fakeHistory
	svc       *Service
}

func newEnv() *env {
	e := &env{
		skips:     &fakeSkipRepo{},
		templates: &fakeTemplateRepo{known: map[int64]bool{1: true}},
		bookings:  &fakeBookingRepo{},
		history:   &fakeHistory{},
	}
	e.svc = NewService(e.skips, e.templates, e.bookings, e.history, nopLogger{})
	return e
}

func TestCreateManual(t *testing.T) {
	e := newEnv()
	e.bookings.cancelled = 2

	cancelled, err := e.svc.CreateManual(context.Background(), 1, testDate, "вихідний", "admin")
	require.NoError(t, err)

	assert.Equal(t, int64(2), cancelled, "бронирования на дату отменены вместе со связанными")
	require.Len(t, e.skips.records, 1)
	assert.Equal(t, domain.SkipManual, e.skips.records[0].Reason)
	assert.Contains(t, e.history.actions, "recurring_skip_created")
}

func TestCreateManual_UnknownTemplate(t *testing.T) {
	e := newEnv()

	_, err := e.svc.CreateManual(context.Background(), 99, testDate, "", "admin")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Empty(t, e.skips.records)
}

func TestCreateManual_UpsertOverwritesReason(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.skips.Upsert(context.Background(), 1, testDate, domain.SkipLineConflict, "busy"))

	_, err := e.svc.CreateManual(context.Background(), 1, testDate, "вихідний", "admin")
	require.NoError(t, err)

	require.Len(t, e.skips.records, 1)
	assert.Equal(t, domain.SkipManual, e.skips.records[0].Reason)
	assert.Equal(t, "вихідний", e.skips.records[0].Details)
}

func TestList(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.skips.Upsert(context.Background(), 1, testDate, domain.SkipNoLine, ""))

	records, err := e.svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = e.svc.List(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRemove(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.skips.Upsert(context.Background(), 1, testDate, domain.SkipManual, ""))

	record, err := e.svc.Remove(context.Background(), 1, "admin")
	require.NoError(t, err)

	assert.Equal(t, int64(1), record.TemplateID)
	assert.Empty(t, e.skips.records, "дата снова доступна генерации")
	assert.Contains(t, e.history.actions, "recurring_skip_removed")
}

func TestRemove_NotFound(t *testing.T) {
	e := newEnv()

	_, err := e.svc.Remove(context.Background(), 42, "admin")
	assert.ErrorIs(t, err, ErrSkipNotFound)
}
