package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Postgres построитель запросов с плейсхолдерами $1, $2, ...
var Postgres = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// SQLite построитель запросов с плейсхолдерами ?
var SQLite = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// ForDriver возвращает построитель под драйвер database/sql
func ForDriver(driver string) (squirrel.StatementBuilderType, error) {
	switch driver {
	case DriverPostgres:
		return Postgres, nil
	case DriverSQLite:
		return SQLite, nil
	default:
		return squirrel.StatementBuilderType{}, fmt.Errorf("psqlbuilder: unsupported driver %q", driver)
	}
}
