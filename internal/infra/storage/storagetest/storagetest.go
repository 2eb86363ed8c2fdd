// Package storagetest поднимает in-memory SQLite со схемой сервиса для тестов репозиториев.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// NewSQLite открывает чистую in-memory БД с примененными миграциями
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(psqlbuilder.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("storagetest: open sqlite: %v", err)
	}
	// каждое новое соединение к :memory: это отдельная пустая БД
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Apply(context.Background(), db, psqlbuilder.DriverSQLite); err != nil {
		t.Fatalf("storagetest: apply migrations: %v", err)
	}

	return db
}

// Exec выполняет запрос и возвращает id вставленной строки
func Exec(t *testing.T, db *sql.DB, query string, args ...interface{}) int64 {
	t.Helper()

	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("storagetest: exec %q: %v", query, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("storagetest: last insert id: %v", err)
	}
	return id
}

// InsertHost добавляет хоста и возвращает его id
func InsertHost(t *testing.T, db *sql.DB, name, email string, timezone, primaryColor *string) int64 {
	t.Helper()
	return Exec(t, db,
		`INSERT INTO users (name, email, timezone, primary_color) VALUES (?, ?, ?, ?)`,
		name, email, timezone, primaryColor,
	)
}
