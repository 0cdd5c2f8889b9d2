package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
	"github.com/m04kA/PARK-RecurringService/pkg/psqlbuilder"
)

// Repository репозиторий журнала действий
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает действие пользователя в журнал. Детали сериализуются в JSON.
func (r *Repository) Create(ctx context.Context, action, username string, data any) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: Create - marshal data: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("history").
		Columns("action", "username", "data").
		Values(action, username, payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
