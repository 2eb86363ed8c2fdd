package host

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

// normalizedNameExpr нормализует users.name так же, как domain.NormalizeNameSlug
const normalizedNameExpr = "lower(replace(replace(trim(name), ' ', '-'), '_', '-'))"

var hostColumns = []string{
	"id",
	"name",
	"email",
	"timezone",
	"primary_color",
}

// Repository репозиторий хостов (таблица users)
type Repository struct {
	db DBExecutor
	sb squirrel.StatementBuilderType
}

// DBExecutor см. dbmetrics.DBExecutor
type DBExecutor = dbmetrics.DBExecutor

// NewRepository создает репозиторий; sb определяет формат плейсхолдеров драйвера
func NewRepository(db DBExecutor, sb squirrel.StatementBuilderType) *Repository {
	return &Repository{db: db, sb: sb}
}

// GetByID получает хоста по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Host, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByEmail получает хоста по email без учета регистра
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Host, error) {
	return r.getOne(ctx, "GetByEmail",
		squirrel.Expr("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

// GetByNameSlug получает хоста по нормализованному имени
// При совпадении нормализованных имен у нескольких хостов возвращается хост с меньшим id
func (r *Repository) GetByNameSlug(ctx context.Context, slug string) (*domain.Host, error) {
	return r.getOne(ctx, "GetByNameSlug",
		squirrel.Expr(normalizedNameExpr+" = ?", domain.NormalizeNameSlug(slug)))
}

func (r *Repository) getOne(ctx context.Context, op string, pred squirrel.Sqlizer) (*domain.Host, error) {
	query, args, err := r.sb.Select(hostColumns...).
		From("users").
		Where(pred).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var h domain.Host
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&h.ID,
		&h.Name,
		&h.Email,
		&h.Timezone,
		&h.PrimaryColor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan host: %v", ErrScanRow, op, err)
	}

	return &h, nil
}
