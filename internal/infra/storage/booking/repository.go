package booking

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

var bookingColumns = []string{
	"id",
	"date",
	"time",
	"line_id",
	"program_id",
	"program_code",
	"label",
	"program_name",
	"category",
	"duration",
	"price",
	"hosts",
	"second_animator",
	"pinata_filler",
	"room",
	"notes",
	"kids_count",
	"group_name",
	"created_by",
	"linked_to",
	"status",
	"recurring_template_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextNumber выделяет следующий номер бронирования формата BK-YYYY-NNNN.
// Счетчик ведется по годам в таблице booking_counter; внутри транзакции
// выделение атомарно вместе со вставкой бронирования.
func (r *Repository) NextNumber(ctx context.Context) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	year := time.Now().Year()
	var counter int64
	err := executor.QueryRowContext(ctx,
		`INSERT INTO booking_counter (year, counter) VALUES ($1, 1)
		 ON CONFLICT (year) DO UPDATE SET counter = booking_counter.counter + 1
		 RETURNING counter`,
		year,
	).Scan(&counter)
	if err != nil {
		return "", fmt.Errorf("%w: NextNumber - execute upsert: %v", ErrExecQuery, err)
	}

	return fmt.Sprintf("BK-%d-%04d", year, counter), nil
}

// Create создает новое бронирование. Если в контексте передана активная
// транзакция, использует её.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"date",
			"time",
			"line_id",
			"program_id",
			"program_code",
			"label",
			"program_name",
			"category",
			"duration",
			"price",
			"hosts",
			"second_animator",
			"pinata_filler",
			"room",
			"notes",
			"kids_count",
			"group_name",
			"created_by",
			"linked_to",
			"status",
			"recurring_template_id",
		).
		Values(
			b.ID,
			b.Date,
			b.Time,
			b.LineID,
			b.ProgramID,
			b.ProgramCode,
			b.Label,
			b.ProgramName,
			b.Category,
			b.Duration,
			b.Price,
			b.Hosts,
			b.SecondAnimator,
			b.PinataFiller,
			b.Room,
			b.Notes,
			b.KidsCount,
			b.GroupName,
			b.CreatedBy,
			b.LinkedTo,
			b.Status,
			b.RecurringTemplateID,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// ExistsForTemplateDate проверяет, существует ли неотмененное основное
// бронирование (не парная половина) для пары (шаблон, дата).
// Это гарантия дедупликации движка генерации.
func (r *Repository) ExistsForTemplateDate(ctx context.Context, templateID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"recurring_template_id": templateID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where("linked_to IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForTemplateDate - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForTemplateDate - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListActiveForLine получает неотмененные бронирования линии на дату.
// Внутри транзакции добавляет FOR UPDATE: проверка конфликтов и вставка
// должны видеть согласованное состояние.
func (r *Repository) ListActiveForLine(ctx context.Context, date time.Time, lineID string) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"line_id": lineID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, builder, "ListActiveForLine")
}

// ListActiveForRoom получает неотмененные бронирования комнаты на дату
func (r *Repository) ListActiveForRoom(ctx context.Context, date time.Time, room string) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"room": room}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, builder, "ListActiveForRoom")
}

// ListActiveForProgram получает неотмененные бронирования программы на дату
func (r *Repository) ListActiveForProgram(ctx context.Context, date time.Time, programID int64) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"program_id": programID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled})

	return r.list(ctx, builder, "ListActiveForProgram")
}

// ListByTemplate получает серию бронирований шаблона с опциональными
// границами периода. primaryOnly исключает парные половины.
func (r *Repository) ListByTemplate(ctx context.Context, templateID int64, from, to *time.Time, primaryOnly bool) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"recurring_template_id": templateID})

	if primaryOnly {
		builder = builder.Where("linked_to IS NULL")
	}
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"date": *to})
	}

	builder = builder.OrderBy("date ASC, time ASC")

	return r.list(ctx, builder, "ListByTemplate")
}

// CountActiveByTemplate считает неотмененные бронирования шаблона
func (r *Repository) CountActiveByTemplate(ctx context.Context, templateID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"recurring_template_id": templateID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTemplate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTemplate - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

// NextActiveDate возвращает дату ближайшего будущего бронирования шаблона
// или nil, если таких нет
func (r *Repository) NextActiveDate(ctx context.Context, templateID int64, from time.Time) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date").
		From("bookings").
		Where(squirrel.Eq{"recurring_template_id": templateID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("date ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: NextActiveDate - build select query: %v", ErrBuildQuery, err)
	}

	var date time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: NextActiveDate - scan: %v", ErrScanRow, err)
	}

	return &date, nil
}

// ListActivePrimaryIDs возвращает ID неотмененных основных бронирований
// шаблона начиная с даты from
func (r *Repository) ListActivePrimaryIDs(ctx context.Context, templateID int64, from time.Time) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"recurring_template_id": templateID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where("linked_to IS NULL").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActivePrimaryIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActivePrimaryIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListActivePrimaryIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActivePrimaryIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// CancelWithLinked отменяет бронирование вместе с его парной половиной
func (r *Repository) CancelWithLinked(ctx context.Context, id string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW()
		 WHERE (id = $2 OR linked_to = $2) AND status != $1`,
		domain.StatusCancelled, id,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelWithLinked - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelWithLinked - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// CancelByTemplateFrom отменяет все неотмененные бронирования шаблона
// начиная с даты from (обе половины парных программ несут template id)
func (r *Repository) CancelByTemplateFrom(ctx context.Context, templateID int64, from time.Time) (int64, error) {
	return r.cancelWhere(ctx, "CancelByTemplateFrom", squirrel.And{
		squirrel.Eq{"recurring_template_id": templateID},
		squirrel.GtOrEq{"date": from},
		squirrel.NotEq{"status": domain.StatusCancelled},
	})
}

// CancelByTemplateOnDate отменяет бронирования шаблона на конкретную дату
// (используется при ручном пропуске даты)
func (r *Repository) CancelByTemplateOnDate(ctx context.Context, templateID int64, date time.Time) (int64, error) {
	return r.cancelWhere(ctx, "CancelByTemplateOnDate", squirrel.And{
		squirrel.Eq{"recurring_template_id": templateID},
		squirrel.Eq{"date": date},
		squirrel.NotEq{"status": domain.StatusCancelled},
	})
}

func (r *Repository) cancelWhere(ctx context.Context, op string, pred interface{}) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(pred).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return affected, nil
}

func (r *Repository) list(ctx context.Context, builder squirrel.SelectBuilder, op string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.Date,
			&b.Time,
			&b.LineID,
			&b.ProgramID,
			&b.ProgramCode,
			&b.Label,
			&b.ProgramName,
			&b.Category,
			&b.Duration,
			&b.Price,
			&b.Hosts,
			&b.SecondAnimator,
			&b.PinataFiller,
			&b.Room,
			&b.Notes,
			&b.KidsCount,
			&b.GroupName,
			&b.CreatedBy,
			&b.LinkedTo,
			&b.Status,
			&b.RecurringTemplateID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
