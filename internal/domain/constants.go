package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Conflict detection constants
const (
	// MinPauseMinutes минимальная пауза между бронированиями на одной линии.
	// Нарушение не блокирует создание, а только помечается предупреждением.
	MinPauseMinutes = 15

	// RoomUnspecified комната-заглушка: бронирования в ней не участвуют
	// в проверке конфликтов по комнатам
	RoomUnspecified = "Інше"

	// CategoryAnimation бронирования этой категории не блокируют дубликаты
	// программы в одно время
	CategoryAnimation = "animation"
)

// Generation constants
const (
	// DefaultHorizonDays горизонт генерации по умолчанию
	DefaultHorizonDays = 14

	// SettingRecurringHorizon ключ настройки горизонта генерации
	SettingRecurringHorizon = "recurring_booking_horizon"

	// SystemUser имя пользователя для автоматически созданных записей
	SystemUser = "system"
)

// StaffStatusWorking статус сотрудника, при котором он доступен для назначения
const StaffStatusWorking = "working"

// AllRooms список комнат заведения
var AllRooms = []string{
	"Marvel", "Ninja", "Minecraft", "Monster High", "Elsa",
	"Растішка", "Rock", "Minion", "Food Court", "Жовтий стіл",
	"Диван 1", "Диван 2", "Диван 3", "Диван 4",
}
