// Package daterange содержит итератор по календарным датам.
// Диапазон включает обе границы, работает в фиксированной таймзоне
// и поддерживает перезапуск с контрольной даты — прерванный прогон
// генерации может продолжиться с места остановки.
package daterange

import (
	"fmt"
	"time"
)

// DateFormat формат даты YYYY-MM-DD
const DateFormat = "2006-01-02"

// Range итератор по датам [from, to] с шагом в один день
type Range struct {
	from time.Time
	to   time.Time
	cur  time.Time
	loc  *time.Location
	init bool
}

// New создает диапазон дат. Время обеих границ обнуляется до полуночи в loc.
func New(from, to time.Time, loc *time.Location) *Range {
	if loc == nil {
		loc = time.UTC
	}
	return &Range{
		from: Truncate(from, loc),
		to:   Truncate(to, loc),
		loc:  loc,
	}
}

// Parse создает диапазон из строк формата YYYY-MM-DD
func Parse(from, to string, loc *time.Location) (*Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	fromT, err := time.ParseInLocation(DateFormat, from, loc)
	if err != nil {
		return nil, fmt.Errorf("daterange: invalid from date %q: %v", from, err)
	}
	toT, err := time.ParseInLocation(DateFormat, to, loc)
	if err != nil {
		return nil, fmt.Errorf("daterange: invalid to date %q: %v", to, err)
	}
	return New(fromT, toT, loc), nil
}

// Truncate обнуляет время до полуночи в loc
func Truncate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Next переходит к следующей дате. Возвращает false, когда диапазон исчерпан.
//
//	for r.Next() {
//	    process(r.Date())
//	}
func (r *Range) Next() bool {
	if !r.init {
		r.cur = r.from
		r.init = true
	} else {
		r.cur = r.cur.AddDate(0, 0, 1)
	}
	return !r.cur.After(r.to)
}

// Date возвращает текущую дату итерации
func (r *Range) Date() time.Time {
	return r.cur
}

// DateStr возвращает текущую дату в формате YYYY-MM-DD
func (r *Range) DateStr() string {
	return r.cur.Format(DateFormat)
}

// Restart перезапускает итерацию с checkpoint (включительно).
// Если checkpoint раньше начала диапазона, итерация начнется с начала.
func (r *Range) Restart(checkpoint time.Time) {
	cp := Truncate(checkpoint, r.loc)
	if cp.Before(r.from) {
		cp = r.from
	}
	// Next() сделает шаг вперед, поэтому встаем на день раньше
	r.cur = cp.AddDate(0, 0, -1)
	r.init = true
}

// Len возвращает количество дат в диапазоне (0, если to раньше from).
// Считает по календарю: день перевода часов остается одним днем.
func (r *Range) Len() int {
	if r.to.Before(r.from) {
		return 0
	}
	from := time.Date(r.from.Year(), r.from.Month(), r.from.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.to.Year(), r.to.Month(), r.to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()/24) + 1
}
