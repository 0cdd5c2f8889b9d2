package task

import (
	"context"
	"fmt"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
	"github.com/m04kA/PARK-RecurringService/pkg/psqlbuilder"
)

// Repository репозиторий задач
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория задач
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает задачу и возвращает ее идентификатор
func (r *Repository) Create(ctx context.Context, t *domain.Task) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tasks").
		Columns("title", "date", "status", "priority", "category", "created_by", "type").
		Values(t.Title, t.Date, t.Status, t.Priority, t.Category, t.CreatedBy, t.Type).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: Create - scan id: %v", ErrScanRow, err)
	}

	return id, nil
}
