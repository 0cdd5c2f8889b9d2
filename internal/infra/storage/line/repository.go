package line

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

// Repository репозиторий линий аниматоров (ресурсы по датам)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория линий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByName получает линию по имени на дату
func (r *Repository) GetByName(ctx context.Context, date time.Time, name string) (*domain.Line, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "line_id", "name", "color").
		From("lines_by_date").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByName - build select query: %v", ErrBuildQuery, err)
	}

	var l domain.Line
	err = executor.QueryRowContext(ctx, query, args...).Scan(&l.Date, &l.LineID, &l.Name, &l.Color)
	if err == sql.ErrNoRows {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByName - scan line: %v", ErrScanRow, err)
	}

	return &l, nil
}

// FirstForDate получает первую линию на дату в порядке стабильного ключа line_id
func (r *Repository) FirstForDate(ctx context.Context, date time.Time) (*domain.Line, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "line_id", "name", "color").
		From("lines_by_date").
		Where(squirrel.Eq{"date": date}).
		OrderBy("line_id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FirstForDate - build select query: %v", ErrBuildQuery, err)
	}

	var l domain.Line
	err = executor.QueryRowContext(ctx, query, args...).Scan(&l.Date, &l.LineID, &l.Name, &l.Color)
	if err == sql.ErrNoRows {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FirstForDate - scan line: %v", ErrScanRow, err)
	}

	return &l, nil
}

// CountForDate считает линии на дату
func (r *Repository) CountForDate(ctx context.Context, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("lines_by_date").
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountForDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountForDate - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

// Create создает линию на дату. Существующая линия с тем же ключом не перезаписывается.
func (r *Repository) Create(ctx context.Context, l *domain.Line) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	_, err := executor.ExecContext(ctx,
		`INSERT INTO lines_by_date (date, line_id, name, color)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		l.Date, l.LineID, l.Name, l.Color,
	)
	if err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
