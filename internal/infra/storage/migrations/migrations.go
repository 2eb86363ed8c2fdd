package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

var (
	// ErrUnsupportedDriver возвращается для драйвера без схемы
	ErrUnsupportedDriver = errors.New("migrations: unsupported driver")

	// ErrApply возвращается при ошибке выполнения миграции
	ErrApply = errors.New("migrations: failed to apply")
)

// Execer минимальный интерфейс для выполнения DDL
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Apply выполняет все миграции драйвера по порядку имен файлов
// Миграции идемпотентны (CREATE ... IF NOT EXISTS), повторный запуск безопасен
// Возвращает список примененных файлов
func Apply(ctx context.Context, db Execer, driver string) ([]string, error) {
	names, err := fs.Glob(files, driver+"/*.sql")
	if err != nil || len(names) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrApply, name, err)
		}

		for i, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return nil, fmt.Errorf("%w: %s statement #%d: %v", ErrApply, name, i+1, err)
			}
		}
	}

	return names, nil
}

// splitStatements делит файл на отдельные выражения по ";"
// В схемах нет строковых литералов с ";"
func splitStatements(content string) []string {
	parts := strings.Split(content, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
