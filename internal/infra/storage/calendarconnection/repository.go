package calendarconnection

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

// DBExecutor см. dbmetrics.DBExecutor
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий подключенных внешних календарей
type Repository struct {
	db DBExecutor
	sb squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория подключений
func NewRepository(db DBExecutor, sb squirrel.StatementBuilderType) *Repository {
	return &Repository{db: db, sb: sb}
}

// GetByHostID получает все подключения календарей хоста
func (r *Repository) GetByHostID(ctx context.Context, hostID int64) ([]*domain.CalendarConnection, error) {
	query, args, err := r.sb.Select(
		"id",
		"host_id",
		"provider",
		"calendar_id",
		"access_token",
		"refresh_token",
		"token_expiry",
		"endpoint",
		"username",
		"password",
	).
		From("calendar_connections").
		Where(squirrel.Eq{"host_id": hostID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHostID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHostID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	connections := make([]*domain.CalendarConnection, 0)
	for rows.Next() {
		var c domain.CalendarConnection
		err := rows.Scan(
			&c.ID,
			&c.HostID,
			&c.Provider,
			&c.CalendarID,
			&c.AccessToken,
			&c.RefreshToken,
			&c.TokenExpiry,
			&c.Endpoint,
			&c.Username,
			&c.Password,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByHostID - scan row: %v", ErrScanRow, err)
		}
		connections = append(connections, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByHostID - rows error: %v", ErrScanRow, err)
	}

	return connections, nil
}
