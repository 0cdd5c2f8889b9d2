package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(r *Range) []string {
	dates := make([]string, 0)
	for r.Next() {
		dates = append(dates, r.DateStr())
	}
	return dates
}

func TestRange_Iterate(t *testing.T) {
	from := time.Date(2026, time.January, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)

	r := New(from, to, time.UTC)
	assert.Equal(t, []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}, collect(r))
	assert.Equal(t, 4, New(from, to, time.UTC).Len())
}

func TestRange_SingleDay(t *testing.T) {
	day := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	r := New(day, day, time.UTC)

	assert.Equal(t, []string{"2026-03-15"}, collect(r))
}

func TestRange_Empty(t *testing.T) {
	from := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	r := New(from, to, time.UTC)
	assert.False(t, r.Next())
	assert.Equal(t, 0, New(from, to, time.UTC).Len())
}

func TestRange_LenAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Skip("tzdata недоступна")
	}

	// 29 марта 2026 перевод на летнее время, в сутках 23 часа
	from := time.Date(2026, time.March, 28, 0, 0, 0, 0, loc)
	to := time.Date(2026, time.March, 30, 0, 0, 0, 0, loc)

	r := New(from, to, loc)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"2026-03-28", "2026-03-29", "2026-03-30"}, collect(r))
}

func TestRange_TruncatesTime(t *testing.T) {
	from := time.Date(2026, time.January, 1, 23, 55, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 2, 0, 5, 0, 0, time.UTC)

	r := New(from, to, time.UTC)
	assert.Equal(t, []string{"2026-01-01", "2026-01-02"}, collect(r))
}

func TestRange_Restart(t *testing.T) {
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	r := New(from, to, time.UTC)
	r.Restart(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"2026-01-03", "2026-01-04", "2026-01-05"}, collect(r))

	// контрольная точка раньше диапазона — итерация с начала
	r2 := New(from, to, time.UTC)
	r2.Restart(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))
	assert.Len(t, collect(r2), 5)
}

func TestParse(t *testing.T) {
	r, err := Parse("2026-01-01", "2026-01-03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	_, err = Parse("01.01.2026", "2026-01-03", time.UTC)
	assert.Error(t, err)
}
