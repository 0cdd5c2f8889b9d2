package domain

import "time"

// TriggerType тип триггера правила автоматизации
type TriggerType string

const (
	// TriggerBookingCreate срабатывает на любое созданное бронирование
	TriggerBookingCreate TriggerType = "booking_create"
	// TriggerBookingConfirm срабатывает только на подтвержденные бронирования
	TriggerBookingConfirm TriggerType = "booking_confirm"
)

// ActionType тип действия правила автоматизации
type ActionType string

const (
	ActionCreateTask    ActionType = "create_task"
	ActionTelegramGroup ActionType = "telegram_group"
)

// Action — действие правила автоматизации. Тегированный вариант:
// Type определяет, какие поля имеют смысл. Диспетчеризация — явной
// таблицей в интерпретаторе, а не динамическим доступом к полям.
type Action struct {
	Type ActionType `json:"type"`

	// create_task
	Title    string `json:"title,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`

	// telegram_group
	Template string `json:"template,omitempty"`
}

// TriggerCondition условие срабатывания правила: бронирование подходит,
// если его программа или категория входит в списки
type TriggerCondition struct {
	ProductIDs []int64  `json:"product_ids,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Matches проверяет, подходит ли бронирование под условие
func (c *TriggerCondition) Matches(b *Booking) bool {
	if c == nil {
		return false
	}
	for _, id := range c.ProductIDs {
		if id == b.ProgramID {
			return true
		}
	}
	if b.Category != nil {
		for _, cat := range c.Categories {
			if cat == *b.Category {
				return true
			}
		}
	}
	return false
}

// AutomationRule — правило автоматизации, хранится в БД.
// Движок знает КАК исполнять действия, но не ЧТО исполнять:
// бизнес-логика не зашита в код.
type AutomationRule struct {
	ID          int64
	Name        string
	TriggerType TriggerType
	Condition   TriggerCondition
	Actions     []Action
	DaysBefore  int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
