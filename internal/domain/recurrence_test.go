package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestISOWeekday(t *testing.T) {
	// 2026-01-05 понедельник, 2026-01-11 воскресенье
	assert.Equal(t, 1, ISOWeekday(date(2026, time.January, 5)))
	assert.Equal(t, 6, ISOWeekday(date(2026, time.January, 10)))
	assert.Equal(t, 7, ISOWeekday(date(2026, time.January, 11)))
}

func TestShouldRunOn_Bounds(t *testing.T) {
	end := date(2026, time.January, 31)
	tmpl := &RecurringTemplate{
		Pattern:   PatternWeekly,
		StartDate: date(2026, time.January, 5),
		EndDate:   &end,
	}

	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 4)), "до начала действия")
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 5)), "первый день включительно")
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 31)), "последний день включительно")
	assert.False(t, tmpl.ShouldRunOn(date(2026, time.February, 1)), "после окончания")
}

func TestShouldRunOn_BoundsAcrossTimezones(t *testing.T) {
	// Дата старта из БД приходит в UTC, дата итерации в таймзоне заведения.
	// Сравниваться должны календарные даты, а не моменты времени.
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Skip("tzdata not available")
	}

	tmpl := &RecurringTemplate{
		Pattern:   PatternWeekly,
		StartDate: date(2026, time.January, 5),
	}

	local := time.Date(2026, time.January, 5, 0, 0, 0, 0, kyiv)
	assert.True(t, tmpl.ShouldRunOn(local))
}

func TestShouldRunOn_Weekly(t *testing.T) {
	tmpl := &RecurringTemplate{
		Pattern:    PatternWeekly,
		DaysOfWeek: []int{1, 3}, // Пн, Ср
		StartDate:  date(2026, time.January, 5),
	}

	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 5)))  // Пн
	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 6))) // Вт
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 7)))  // Ср
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 12))) // следующий Пн
}

func TestShouldRunOn_WeeklyEmptyDays(t *testing.T) {
	// Пустой набор дней для weekly означает любой день
	tmpl := &RecurringTemplate{
		Pattern:   PatternWeekly,
		StartDate: date(2026, time.January, 5),
	}

	for d := 5; d <= 11; d++ {
		assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, d)), "day %d", d)
	}
}

func TestShouldRunOn_WeeklyInterval(t *testing.T) {
	tmpl := &RecurringTemplate{
		Pattern:       PatternWeekly,
		DaysOfWeek:    []int{1},
		IntervalWeeks: 2,
		StartDate:     date(2026, time.January, 5), // Пн
	}

	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 5)))
	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 12)), "нечетная неделя")
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 19)))
	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 26)))
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.February, 2)))
}

func TestShouldRunOn_Biweekly(t *testing.T) {
	tmpl := &RecurringTemplate{
		Pattern:    PatternBiweekly,
		DaysOfWeek: []int{6}, // Сб
		StartDate:  date(2026, time.January, 10),
	}

	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 10)))
	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 17)))
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 24)))
}

func TestShouldRunOn_Monthly(t *testing.T) {
	t.Run("first saturday", func(t *testing.T) {
		tmpl := &RecurringTemplate{
			Pattern:     PatternMonthly,
			MonthlyRule: strPtr("1st_6"),
			StartDate:   date(2026, time.January, 1),
		}

		assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 3)))   // первая Сб января
		assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 10))) // вторая Сб
		assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 4)))  // Вс
		assert.True(t, tmpl.ShouldRunOn(date(2026, time.February, 7)))  // первая Сб февраля
	})

	t.Run("last friday", func(t *testing.T) {
		tmpl := &RecurringTemplate{
			Pattern:     PatternMonthly,
			MonthlyRule: strPtr("last_5"),
			StartDate:   date(2026, time.January, 1),
		}

		assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 30)))
		assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 23)), "предпоследняя Пт")
	})

	t.Run("nil rule never fires", func(t *testing.T) {
		tmpl := &RecurringTemplate{
			Pattern:   PatternMonthly,
			StartDate: date(2026, time.January, 1),
		}

		assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 3)))
	})

	t.Run("malformed rule never fires", func(t *testing.T) {
		tmpl := &RecurringTemplate{
			Pattern:     PatternMonthly,
			MonthlyRule: strPtr("sometimes"),
			StartDate:   date(2026, time.January, 1),
		}

		assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 3)))
	})
}

func TestShouldRunOn_Custom(t *testing.T) {
	tmpl := &RecurringTemplate{
		Pattern:    PatternCustom,
		DaysOfWeek: []int{2, 4}, // Вт, Чт
		StartDate:  date(2026, time.January, 1),
	}

	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 6)))  // Вт
	assert.True(t, tmpl.ShouldRunOn(date(2026, time.January, 8)))  // Чт
	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 7))) // Ср

	// custom без дней не срабатывает никогда
	empty := &RecurringTemplate{
		Pattern:   PatternCustom,
		StartDate: date(2026, time.January, 1),
	}
	for d := 1; d <= 7; d++ {
		assert.False(t, empty.ShouldRunOn(date(2026, time.January, d)))
	}
}

func TestShouldRunOn_WeekdaysWeekends(t *testing.T) {
	weekdays := &RecurringTemplate{Pattern: PatternWeekdays, StartDate: date(2026, time.January, 1)}
	weekends := &RecurringTemplate{Pattern: PatternWeekends, StartDate: date(2026, time.January, 1)}

	assert.True(t, weekdays.ShouldRunOn(date(2026, time.January, 5)))   // Пн
	assert.True(t, weekdays.ShouldRunOn(date(2026, time.January, 9)))   // Пт
	assert.False(t, weekdays.ShouldRunOn(date(2026, time.January, 10))) // Сб

	assert.False(t, weekends.ShouldRunOn(date(2026, time.January, 9)))
	assert.True(t, weekends.ShouldRunOn(date(2026, time.January, 10)))
	assert.True(t, weekends.ShouldRunOn(date(2026, time.January, 11)))
}

func TestShouldRunOn_UnknownPattern(t *testing.T) {
	tmpl := &RecurringTemplate{
		Pattern:   PatternKind("daily"),
		StartDate: date(2026, time.January, 1),
	}

	assert.False(t, tmpl.ShouldRunOn(date(2026, time.January, 5)))
}

func TestIsPaired(t *testing.T) {
	name := "Олена"
	empty := ""

	assert.True(t, (&RecurringTemplate{Hosts: 2, SecondAnimatorName: &name}).IsPaired())
	assert.False(t, (&RecurringTemplate{Hosts: 1, SecondAnimatorName: &name}).IsPaired())
	assert.False(t, (&RecurringTemplate{Hosts: 2}).IsPaired())
	assert.False(t, (&RecurringTemplate{Hosts: 2, SecondAnimatorName: &empty}).IsPaired())
}

func TestTargetStatus(t *testing.T) {
	assert.Equal(t, StatusPreliminary, (&RecurringTemplate{}).TargetStatus())
	assert.Equal(t, StatusConfirmed, (&RecurringTemplate{Status: StatusConfirmed}).TargetStatus())
}
