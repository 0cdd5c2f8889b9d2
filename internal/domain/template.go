package domain

import (
	"time"

	"github.com/m04kA/PARK-RecurringService/pkg/types"
)

// PatternKind вид шаблона повторения
type PatternKind string

const (
	PatternWeekly   PatternKind = "weekly"
	PatternBiweekly PatternKind = "biweekly"
	PatternMonthly  PatternKind = "monthly"
	PatternCustom   PatternKind = "custom"
	PatternWeekdays PatternKind = "weekdays"
	PatternWeekends PatternKind = "weekends"
)

// ValidPatterns список допустимых видов шаблонов
var ValidPatterns = []PatternKind{
	PatternWeekly, PatternBiweekly, PatternMonthly,
	PatternCustom, PatternWeekdays, PatternWeekends,
}

// ValidPattern reports whether p is a known pattern kind
func ValidPattern(p PatternKind) bool {
	for _, v := range ValidPatterns {
		if v == p {
			return true
		}
	}
	return false
}

// RecurringTemplate — декларативное правило повторения, которое движок
// генерации разворачивает в конкретные бронирования
type RecurringTemplate struct {
	ID int64

	Pattern       PatternKind
	DaysOfWeek    []int // ISO: 1=Пн ... 7=Вс; пустой = любой день (для weekly)
	IntervalWeeks int   // интервал в неделях для weekly; 1 = каждую неделю
	MonthlyRule   *string

	StartDate time.Time
	EndDate   *time.Time
	TimeStart types.TimeString
	TimeEnd   types.TimeString // вычисляется как TimeStart + Duration

	// PreferredLineName имя предпочитаемого аниматора; nil = первая свободная линия
	PreferredLineName *string
	Room              *string

	// Атрибуты программы (копируются в бронирование при генерации)
	ProgramID   int64
	ProgramCode *string
	Label       *string
	ProgramName *string
	Category    *string
	Duration    int
	Price       *float64
	Hosts       int

	// SecondAnimatorName имя второго аниматора для программ с двумя ведущими
	SecondAnimatorName *string

	PinataFiller *string
	KidsCount    *int
	GroupName    *string
	Notes        *string

	// Status целевой статус создаваемых бронирований
	Status   BookingStatus
	IsActive bool

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPaired возвращает true для программ с двумя аниматорами
func (t *RecurringTemplate) IsPaired() bool {
	return t.Hosts > 1 && t.SecondAnimatorName != nil && *t.SecondAnimatorName != ""
}

// DisplayName возвращает человекочитаемое имя программы шаблона
func (t *RecurringTemplate) DisplayName() string {
	if t.ProgramName != nil && *t.ProgramName != "" {
		return *t.ProgramName
	}
	if t.Label != nil && *t.Label != "" {
		return *t.Label
	}
	if t.ProgramCode != nil {
		return *t.ProgramCode
	}
	return ""
}

// TargetStatus возвращает статус создаваемых бронирований (по умолчанию preliminary)
func (t *RecurringTemplate) TargetStatus() BookingStatus {
	if t.Status == "" {
		return StatusPreliminary
	}
	return t.Status
}
