package automationrule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
	"github.com/m04kA/PARK-RecurringService/pkg/psqlbuilder"
)

// Repository репозиторий правил автоматизации
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActive получает все активные правила для типа триггера
func (r *Repository) ListActive(ctx context.Context, trigger domain.TriggerType) ([]domain.AutomationRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "trigger_type", "trigger_condition", "actions",
		"days_before", "is_active", "created_at", "updated_at",
	).
		From("automation_rules").
		Where(squirrel.Eq{"trigger_type": trigger}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var rules []domain.AutomationRule
	for rows.Next() {
		var (
			rule          domain.AutomationRule
			conditionJSON []byte
			actionsJSON   []byte
		)
		err := rows.Scan(
			&rule.ID, &rule.Name, &rule.TriggerType, &conditionJSON, &actionsJSON,
			&rule.DaysBefore, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan rule: %v", ErrScanRow, err)
		}

		if len(conditionJSON) > 0 {
			if err := json.Unmarshal(conditionJSON, &rule.Condition); err != nil {
				return nil, fmt.Errorf("%w: ListActive - unmarshal condition: %v", ErrScanRow, err)
			}
		}
		if len(actionsJSON) > 0 {
			if err := json.Unmarshal(actionsJSON, &rule.Actions); err != nil {
				return nil, fmt.Errorf("%w: ListActive - unmarshal actions: %v", ErrScanRow, err)
			}
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - iterate rows: %v", ErrExecQuery, err)
	}

	return rules, nil
}
