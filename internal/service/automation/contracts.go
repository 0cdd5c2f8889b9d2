package automation

import (
	"context"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// RuleRepository интерфейс репозитория правил автоматизации
type RuleRepository interface {
	ListActive(ctx context.Context, trigger domain.TriggerType) ([]domain.AutomationRule, error)
}

// TaskRepository интерфейс репозитория задач
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (int64, error)
}

// HistoryRepository интерфейс журнала действий
type HistoryRepository interface {
	Create(ctx context.Context, action, username string, data any) error
}

// TelegramClient интерфейс клиента Telegram
type TelegramClient interface {
	SendMessage(ctx context.Context, text string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
