package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

// DBExecutor см. dbmetrics.DBExecutor
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для чтения бронирований
type Repository struct {
	db DBExecutor
	sb squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, sb squirrel.StatementBuilderType) *Repository {
	return &Repository{db: db, sb: sb}
}

// GetByHostStartingBefore получает все бронирования хоста, начинающиеся раньше before
// Нижней границы нет: прошедшие бронирования тоже возвращаются.
// Статус не фильтруется.
func (r *Repository) GetByHostStartingBefore(ctx context.Context, hostID int64, before time.Time) ([]*domain.Booking, error) {
	query, args, err := r.sb.Select(
		"id",
		"host_id",
		"start_time",
		"end_time",
		"client_email",
		"client_name",
		"status",
		"created_at",
	).
		From("bookings").
		Where(squirrel.Eq{"host_id": hostID}).
		Where(squirrel.Lt{"start_time": before.UTC()}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHostStartingBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHostStartingBefore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.HostID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.ClientEmail,
			&booking.ClientName,
			&booking.Status,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
