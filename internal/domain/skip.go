package domain

import "time"

// SkipReason причина пропуска генерации для пары (шаблон, дата)
type SkipReason string

const (
	SkipNoLine                  SkipReason = "no_line"
	SkipAnimatorUnavailable     SkipReason = "animator_unavailable"
	SkipLineConflict            SkipReason = "line_conflict"
	SkipRoomConflict            SkipReason = "room_conflict"
	SkipSecondAnimatorConflict  SkipReason = "second_animator_conflict"
	SkipManual                  SkipReason = "manual_skip"
	SkipError                   SkipReason = "error"
)

// SkipRecord — запись журнала пропусков. Пока запись существует для пары
// (шаблон, дата), движок не пытается генерировать бронирование повторно;
// удаление записи разрешает повтор.
type SkipRecord struct {
	ID         int64
	TemplateID int64
	Date       time.Time
	Reason     SkipReason
	Details    string
	Notified   bool
	CreatedAt  time.Time
}
