package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ISOWeekday возвращает день недели в формате ISO: 1=Пн ... 7=Вс
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ShouldRunOn решает, должен ли шаблон сгенерировать бронирование на дату.
// Чистая функция шаблона и даты, без побочных эффектов.
func (t *RecurringTemplate) ShouldRunOn(date time.Time) bool {
	// Границы действия шаблона. Сравниваем календарные даты, а не моменты
	// времени: дата из БД (UTC) и дата итерации (локальная таймзона) на один
	// и тот же день — это разные моменты.
	dateStr := date.Format(DateFormat)
	if dateStr < t.StartDate.Format(DateFormat) {
		return false
	}
	if t.EndDate != nil && dateStr > t.EndDate.Format(DateFormat) {
		return false
	}

	weekday := ISOWeekday(date)

	switch t.Pattern {
	case PatternWeekly:
		if len(t.DaysOfWeek) > 0 && !containsDay(t.DaysOfWeek, weekday) {
			return false
		}
		if t.IntervalWeeks > 1 {
			return isCorrectWeekInterval(t.StartDate, date, t.IntervalWeeks)
		}
		return true

	case PatternBiweekly:
		if len(t.DaysOfWeek) > 0 && !containsDay(t.DaysOfWeek, weekday) {
			return false
		}
		return isCorrectWeekInterval(t.StartDate, date, 2)

	case PatternMonthly:
		if t.MonthlyRule == nil {
			return false
		}
		return matchesMonthlyRule(*t.MonthlyRule, date)

	case PatternCustom:
		// Пустой набор дней — шаблон никогда не срабатывает
		if len(t.DaysOfWeek) == 0 {
			return false
		}
		return containsDay(t.DaysOfWeek, weekday)

	case PatternWeekdays:
		return weekday >= 1 && weekday <= 5

	case PatternWeekends:
		return weekday >= 6

	default:
		return false
	}
}

// isCorrectWeekInterval проверяет, что дата попадает на нужный недельный
// интервал от стартовой даты: целое число недель делится на интервал.
func isCorrectWeekInterval(start, check time.Time, intervalWeeks int) bool {
	if intervalWeeks <= 1 {
		return true
	}
	diffDays := int(dateOnly(check).Sub(dateOnly(start)).Hours() / 24)
	diffWeeks := int(math.Floor(float64(diffDays) / 7))
	return diffWeeks >= 0 && diffWeeks%intervalWeeks == 0
}

// matchesMonthlyRule проверяет месячное правило вида "1st_6" (первая суббота).
// Формат: "{ordinal}_{weekday}", weekday: 1=Пн ... 7=Вс,
// ordinal: 1st, 2nd, 3rd, 4th, 5th, last.
func matchesMonthlyRule(rule string, date time.Time) bool {
	parts := strings.SplitN(rule, "_", 2)
	if len(parts) != 2 {
		return false
	}
	targetDay, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	if ISOWeekday(date) != targetDay {
		return false
	}

	dayOfMonth := date.Day()

	if parts[0] == "last" {
		// "last" — добавление 7 дней переходит в следующий месяц
		return date.AddDate(0, 0, 7).Month() != date.Month()
	}

	ordinals := map[string]int{"1st": 1, "2nd": 2, "3rd": 3, "4th": 4, "5th": 5}
	ordinal, ok := ordinals[parts[0]]
	if !ok {
		return false
	}
	weekNum := (dayOfMonth + 6) / 7 // ceil(dayOfMonth / 7)
	return weekNum == ordinal
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// dateOnly нормализует дату к полуночи UTC, отбрасывая таймзону источника.
// Разница между такими значениями — точное число календарных дней.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
