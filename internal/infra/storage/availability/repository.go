package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

// DBExecutor см. dbmetrics.DBExecutor
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий еженедельных правил доступности
type Repository struct {
	db DBExecutor
	sb squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория правил доступности
func NewRepository(db DBExecutor, sb squirrel.StatementBuilderType) *Repository {
	return &Repository{db: db, sb: sb}
}

// GetActiveByHostID получает активные правила хоста
// Сортировка: день недели, затем время начала; строки времени "HH:MM" фиксированной ширины
func (r *Repository) GetActiveByHostID(ctx context.Context, hostID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	query, args, err := r.sb.Select(
		"id",
		"user_id",
		"day_of_week",
		"start_time",
		"end_time",
		"duration_minutes",
		"buffer_minutes",
		"is_active",
	).
		From("availability_rules").
		Where(squirrel.Eq{"user_id": hostID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("day_of_week ASC", "start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByHostID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByHostID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// scanRules сканирует результаты запроса в слайс правил
func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.WeeklyAvailabilityRule, error) {
	rules := make([]*domain.WeeklyAvailabilityRule, 0)

	for rows.Next() {
		var rule domain.WeeklyAvailabilityRule
		err := rows.Scan(
			&rule.ID,
			&rule.HostID,
			&rule.DayOfWeek,
			&rule.StartTime,
			&rule.EndTime,
			&rule.DurationMinutes,
			&rule.BufferMinutes,
			&rule.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
