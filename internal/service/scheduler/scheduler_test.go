package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	settingsRepo "github.com/m04kA/PARK-RecurringService/internal/infra/storage/settings"
)

type fakeRunner struct {
	runs int
	err  error
}

func (f *fakeRunner) RunAll(_ context.Context) error {
	f.runs++
	return f.err
}

type fakeSettings struct {
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", settingsRepo.ErrSettingNotFound
}

func (f *fakeSettings) Set(_ context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func today() string {
	return time.Now().UTC().Format(domain.DateFormat)
}

func TestRunOnce_RunsAfterGenerationTime(t *testing.T) {
	runner := &fakeRunner{}
	settings := newFakeSettings()
	s := New(runner, settings, nopLogger{}, "00:00", time.UTC, time.Minute)

	s.runOnce(context.Background())

	assert.Equal(t, 1, runner.runs)
	assert.Equal(t, today(), settings.values[settingLastRun], "дата запуска сохранена")
}

func TestRunOnce_OncePerDay(t *testing.T) {
	runner := &fakeRunner{}
	settings := newFakeSettings()
	s := New(runner, settings, nopLogger{}, "00:00", time.UTC, time.Minute)

	s.runOnce(context.Background())
	s.runOnce(context.Background())

	assert.Equal(t, 1, runner.runs, "повторный тик в тот же день не запускает генерацию")
}

func TestRunOnce_WaitsForGenerationTime(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(5 * time.Minute)
	if future.Day() != now.Day() {
		t.Skip("слишком близко к полуночи для проверки времени запуска")
	}

	runner := &fakeRunner{}
	s := New(runner, newFakeSettings(), nopLogger{}, future.Format("15:04"), time.UTC, time.Minute)

	s.runOnce(context.Background())

	assert.Equal(t, 0, runner.runs)
}

func TestRunOnce_FailureAllowsRetry(t *testing.T) {
	runner := &fakeRunner{err: errors.New("db gone")}
	settings := newFakeSettings()
	s := New(runner, settings, nopLogger{}, "00:00", time.UTC, time.Minute)

	s.runOnce(context.Background())
	require.Equal(t, 1, runner.runs)
	assert.Empty(t, settings.values, "неудачный запуск не помечает день выполненным")

	runner.err = nil
	s.runOnce(context.Background())
	assert.Equal(t, 2, runner.runs, "следующий тик повторяет генерацию")
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, newFakeSettings(), nopLogger{}, "00:00", time.UTC, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}

	assert.GreaterOrEqual(t, runner.runs, 1)
}
