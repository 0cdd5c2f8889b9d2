package lines

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	lineRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/line"
)

// fakeLineRepo хранит линии в памяти с ключом (дата, имя)
type fakeLineRepo struct {
	lines   []*domain.Line
	created []*domain.Line
	err     error
}

func (f *fakeLineRepo) GetByName(_ context.Context, date time.Time, name string) (*domain.Line, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, l := range f.lines {
		if l.Date.Equal(date) && l.Name == name {
			return l, nil
		}
	}
	return nil, lineRepo.ErrLineNotFound
}

func (f *fakeLineRepo) FirstForDate(_ context.Context, date time.Time) (*domain.Line, error) {
	if f.err != nil {
		return nil, f.err
	}
	var first *domain.Line
	for _, l := range f.lines {
		if !l.Date.Equal(date) {
			continue
		}
		if first == nil || l.LineID < first.LineID {
			first = l
		}
	}
	if first == nil {
		return nil, lineRepo.ErrLineNotFound
	}
	return first, nil
}

func (f *fakeLineRepo) CountForDate(_ context.Context, date time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, l := range f.lines {
		if l.Date.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (f *fakeLineRepo) Create(_ context.Context, l *domain.Line) error {
	if f.err != nil {
		return f.err
	}
	f.lines = append(f.lines, l)
	f.created = append(f.created, l)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// recordLogger считает предупреждения
type recordLogger struct {
	nopLogger
	warnings int
}

func (l *recordLogger) Warn(string, ...interface{}) { l.warnings++ }

var testDate = time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

func TestResolve_ExactMatch(t *testing.T) {
	preferred := &domain.Line{Date: testDate, LineID: "line2_2026-01-10", Name: "Аніматор 2"}
	repo := &fakeLineRepo{lines: []*domain.Line{
		{Date: testDate, LineID: "line1_2026-01-10", Name: "Аніматор 1"},
		preferred,
	}}
	svc := NewService(repo, nopLogger{})

	line, err := svc.Resolve(context.Background(), testDate, "Аніматор 2")
	require.NoError(t, err)
	assert.Equal(t, preferred, line)
}

func TestResolve_ProvisionsDefaultsForEmptyDate(t *testing.T) {
	repo := &fakeLineRepo{}
	svc := NewService(repo, nopLogger{})

	line, err := svc.Resolve(context.Background(), testDate, "Аніматор 1")
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, "Аніматор 1", line.Name)
	assert.Len(t, repo.created, len(domain.DefaultLines))
}

func TestResolve_FallbackToFirstLine(t *testing.T) {
	first := &domain.Line{Date: testDate, LineID: "line1_2026-01-10", Name: "Аніматор 1"}
	repo := &fakeLineRepo{lines: []*domain.Line{
		{Date: testDate, LineID: "line2_2026-01-10", Name: "Аніматор 2"},
		first,
	}}
	svc := NewService(repo, nopLogger{})

	line, err := svc.Resolve(context.Background(), testDate, "Невідомий")
	require.NoError(t, err)
	assert.Equal(t, first, line, "первая линия по порядку line_id")
}

func TestResolve_NoPreferredName(t *testing.T) {
	first := &domain.Line{Date: testDate, LineID: "line1_2026-01-10", Name: "Аніматор 1"}
	repo := &fakeLineRepo{lines: []*domain.Line{first}}
	log := &recordLogger{}
	svc := NewService(repo, log)

	line, err := svc.Resolve(context.Background(), testDate, "")
	require.NoError(t, err)
	assert.Equal(t, first, line)
	assert.Zero(t, log.warnings, "без предпочтения фолбэк не предупреждает")
}

// countOnlyRepo имитирует дату, где счетчик видит линии, но выборка пуста
type countOnlyRepo struct {
	fakeLineRepo
}

func (r *countOnlyRepo) CountForDate(_ context.Context, _ time.Time) (int, error) {
	return 2, nil
}

func TestResolve_NoLineAvailable(t *testing.T) {
	svc := NewService(&countOnlyRepo{}, nopLogger{})

	line, err := svc.Resolve(context.Background(), testDate, "Аніматор 1")
	require.NoError(t, err)
	assert.Nil(t, line, "нет линии - нет ошибки, решение принимает вызывающий")
}

func TestResolve_RepoError(t *testing.T) {
	repo := &fakeLineRepo{err: errors.New("db down")}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Resolve(context.Background(), testDate, "Аніматор 1")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestEnsureDefaults_LineIDIncludesDate(t *testing.T) {
	repo := &fakeLineRepo{}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.EnsureDefaults(context.Background(), testDate))
	require.Len(t, repo.created, len(domain.DefaultLines))
	assert.Equal(t, "line1_2026-01-10", repo.created[0].LineID)
	assert.Equal(t, "line2_2026-01-10", repo.created[1].LineID)
}
