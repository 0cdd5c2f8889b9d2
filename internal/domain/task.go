package domain

import "time"

// TaskStatus статус задачи
type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "todo"
	TaskStatusDone TaskStatus = "done"
)

// Task — задача, создаваемая правилами автоматизации
// (например, «закупить наповнювач для піньяти» за N дней до праздника)
type Task struct {
	ID        int64
	Title     string
	Date      time.Time
	Status    TaskStatus
	Priority  string
	Category  string
	CreatedBy string
	Type      string
	CreatedAt time.Time
}
