// Package skipledger — журнал пропусков генерации.
// Запись с ключом (шаблон, дата) означает, что движок уже пытался
// сгенерировать бронирование и намеренно этого не сделал; повторные
// прогоны пропускают такие пары, пока запись не удалят вручную.
package skipledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
	"github.com/m04kA/PARK-RecurringService/pkg/psqlbuilder"
)

// Repository репозиторий журнала пропусков
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала пропусков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert записывает пропуск по ключу (шаблон, дата).
// Повторная запись для того же ключа обновляет причину и детали.
func (r *Repository) Upsert(ctx context.Context, templateID int64, date time.Time, reason domain.SkipReason, details string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	_, err := executor.ExecContext(ctx,
		`INSERT INTO recurring_booking_skips (template_id, date, reason, details)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (template_id, date) DO UPDATE SET reason = $3, details = $4`,
		templateID, date, reason, details,
	)
	if err != nil {
		return fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// Has проверяет наличие записи о пропуске для пары (шаблон, дата)
func (r *Repository) Has(ctx context.Context, templateID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("recurring_booking_skips").
		Where(squirrel.Eq{"template_id": templateID}).
		Where(squirrel.Eq{"date": date}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Has - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Has - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListByTemplate получает все пропуски шаблона, новые даты первыми
func (r *Repository) ListByTemplate(ctx context.Context, templateID int64) ([]*domain.SkipRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "template_id", "date", "reason", "details", "notified", "created_at",
	).
		From("recurring_booking_skips").
		Where(squirrel.Eq{"template_id": templateID}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTemplate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTemplate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	skips := make([]*domain.SkipRecord, 0)
	for rows.Next() {
		var s domain.SkipRecord
		var createdAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.TemplateID, &s.Date, &s.Reason, &s.Details, &s.Notified, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByTemplate - scan row: %v", ErrScanRow, err)
		}
		s.CreatedAt = createdAt.Time
		skips = append(skips, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTemplate - rows error: %v", ErrScanRow, err)
	}

	return skips, nil
}

// CountByTemplate считает пропуски шаблона
func (r *Repository) CountByTemplate(ctx context.Context, templateID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("recurring_booking_skips").
		Where(squirrel.Eq{"template_id": templateID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByTemplate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByTemplate - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

// Delete удаляет запись о пропуске, разрешая повторную генерацию пары.
// Возвращает удаленную запись.
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.SkipRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var s domain.SkipRecord
	err := executor.QueryRowContext(ctx,
		`DELETE FROM recurring_booking_skips WHERE id = $1 RETURNING id, template_id, date`,
		id,
	).Scan(&s.ID, &s.TemplateID, &s.Date)
	if err == sql.ErrNoRows {
		return nil, ErrSkipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return &s, nil
}
