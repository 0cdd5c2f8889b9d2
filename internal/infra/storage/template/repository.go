package template

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
	"github.com/m04kA/PARK-RecurringService/pkg/psqlbuilder"
)

var templateColumns = []string{
	"id",
	"pattern",
	"days_of_week",
	"interval_weeks",
	"monthly_rule",
	"start_date",
	"end_date",
	"time_start",
	"time_end",
	"preferred_line_name",
	"room",
	"program_id",
	"program_code",
	"label",
	"program_name",
	"category",
	"duration",
	"price",
	"hosts",
	"second_animator_name",
	"pinata_filler",
	"kids_count",
	"group_name",
	"notes",
	"status",
	"is_active",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с шаблонами повторяющихся бронирований
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый шаблон
func (r *Repository) Create(ctx context.Context, t *domain.RecurringTemplate) (*domain.RecurringTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_templates").
		Columns(
			"pattern",
			"days_of_week",
			"interval_weeks",
			"monthly_rule",
			"start_date",
			"end_date",
			"time_start",
			"time_end",
			"preferred_line_name",
			"room",
			"program_id",
			"program_code",
			"label",
			"program_name",
			"category",
			"duration",
			"price",
			"hosts",
			"second_animator_name",
			"pinata_filler",
			"kids_count",
			"group_name",
			"notes",
			"status",
			"is_active",
			"created_by",
		).
		Values(
			t.Pattern,
			daysArray(t.DaysOfWeek),
			t.IntervalWeeks,
			t.MonthlyRule,
			t.StartDate,
			t.EndDate,
			t.TimeStart,
			t.TimeEnd,
			t.PreferredLineName,
			t.Room,
			t.ProgramID,
			t.ProgramCode,
			t.Label,
			t.ProgramName,
			t.Category,
			t.Duration,
			t.Price,
			t.Hosts,
			t.SecondAnimatorName,
			t.PinataFiller,
			t.KidsCount,
			t.GroupName,
			t.Notes,
			t.TargetStatus(),
			t.IsActive,
			t.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// GetByID получает шаблон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurringTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("recurring_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	t, err := scanTemplateRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan template: %v", ErrScanRow, err)
	}

	return t, nil
}

// List получает все шаблоны, новые первыми
func (r *Repository) List(ctx context.Context) ([]*domain.RecurringTemplate, error) {
	return r.listWhere(ctx, "List", nil)
}

// ListActive получает все активные шаблоны
func (r *Repository) ListActive(ctx context.Context) ([]*domain.RecurringTemplate, error) {
	return r.listWhere(ctx, "ListActive", squirrel.Eq{"is_active": true})
}

// Update перезаписывает все изменяемые поля шаблона
func (r *Repository) Update(ctx context.Context, t *domain.RecurringTemplate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_templates").
		Set("pattern", t.Pattern).
		Set("days_of_week", daysArray(t.DaysOfWeek)).
		Set("interval_weeks", t.IntervalWeeks).
		Set("monthly_rule", t.MonthlyRule).
		Set("start_date", t.StartDate).
		Set("end_date", t.EndDate).
		Set("time_start", t.TimeStart).
		Set("time_end", t.TimeEnd).
		Set("preferred_line_name", t.PreferredLineName).
		Set("room", t.Room).
		Set("program_id", t.ProgramID).
		Set("program_code", t.ProgramCode).
		Set("label", t.Label).
		Set("program_name", t.ProgramName).
		Set("category", t.Category).
		Set("duration", t.Duration).
		Set("price", t.Price).
		Set("hosts", t.Hosts).
		Set("second_animator_name", t.SecondAnimatorName).
		Set("pinata_filler", t.PinataFiller).
		Set("kids_count", t.KidsCount).
		Set("group_name", t.GroupName).
		Set("notes", t.Notes).
		Set("status", t.TargetStatus()).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// SetActive включает или выключает шаблон (мягкое удаление)
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_templates").
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetActive - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func (r *Repository) listWhere(ctx context.Context, op string, pred interface{}) ([]*domain.RecurringTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(templateColumns...).
		From("recurring_templates").
		OrderBy("created_at DESC")
	if pred != nil {
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	templates := make([]*domain.RecurringTemplate, 0)
	for rows.Next() {
		t, err := scanTemplateRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return templates, nil
}

// daysArray конвертирует дни недели в значение для postgres-массива
func daysArray(days []int) interface{} {
	if days == nil {
		return nil
	}
	arr := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		arr = append(arr, int64(d))
	}
	return arr
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplateRow(row rowScanner) (*domain.RecurringTemplate, error) {
	var t domain.RecurringTemplate
	var days pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.Pattern,
		&days,
		&t.IntervalWeeks,
		&t.MonthlyRule,
		&t.StartDate,
		&t.EndDate,
		&t.TimeStart,
		&t.TimeEnd,
		&t.PreferredLineName,
		&t.Room,
		&t.ProgramID,
		&t.ProgramCode,
		&t.Label,
		&t.ProgramName,
		&t.Category,
		&t.Duration,
		&t.Price,
		&t.Hosts,
		&t.SecondAnimatorName,
		&t.PinataFiller,
		&t.KidsCount,
		&t.GroupName,
		&t.Notes,
		&t.Status,
		&t.IsActive,
		&t.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if days != nil {
		t.DaysOfWeek = make([]int, 0, len(days))
		for _, d := range days {
			t.DaysOfWeek = append(t.DaysOfWeek, int(d))
		}
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
