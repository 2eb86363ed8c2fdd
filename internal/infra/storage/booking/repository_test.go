package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

func TestRepository_GetByHostStartingBefore(t *testing.T) {
	db := storagetest.NewSQLite(t)
	repo := NewRepository(db, psqlbuilder.SQLite)

	hostID := storagetest.InsertHost(t, db, "Jane Doe", "jane@example.com", nil, nil)
	otherID := storagetest.InsertHost(t, db, "John Smith", "john@example.com", nil, nil)

	insert := `INSERT INTO bookings (host_id, start_time, end_time, client_email, client_name, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	at := func(day, hour int) time.Time { return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC) }

	past := storagetest.Exec(t, db, insert, hostID, at(1, 9), at(1, 10), "a@example.com", "A", "completed")
	inWindow := storagetest.Exec(t, db, insert, hostID, at(2, 18), at(2, 19), "b@example.com", "B", "confirmed")
	cancelled := storagetest.Exec(t, db, insert, hostID, at(3, 12), at(3, 13), "c@example.com", "C", "cancelled")
	storagetest.Exec(t, db, insert, hostID, at(20, 9), at(20, 10), "d@example.com", "D", "pending")
	storagetest.Exec(t, db, insert, otherID, at(2, 9), at(2, 10), "e@example.com", "E", "pending")

	bookings, err := repo.GetByHostStartingBefore(context.Background(), hostID, at(10, 0))
	require.NoError(t, err)
	require.Len(t, bookings, 3)

	assert.Equal(t, past, bookings[0].ID)
	assert.Equal(t, inWindow, bookings[1].ID)
	assert.Equal(t, cancelled, bookings[2].ID)

	b := bookings[1]
	assert.Equal(t, hostID, b.HostID)
	assert.True(t, b.StartTime.Equal(at(2, 18)), b.StartTime)
	assert.True(t, b.EndTime.Equal(at(2, 19)), b.EndTime)
	assert.Equal(t, "b@example.com", b.ClientEmail)
	assert.Equal(t, "B", b.ClientName)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, time.Hour, b.Duration())
	assert.False(t, b.CreatedAt.IsZero())
	assert.True(t, bookings[2].IsCancelled())
}

func TestRepository_GetByHostStartingBefore_UpperBoundIsExclusive(t *testing.T) {
	db := storagetest.NewSQLite(t)
	repo := NewRepository(db, psqlbuilder.SQLite)

	hostID := storagetest.InsertHost(t, db, "Jane Doe", "jane@example.com", nil, nil)
	bound := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	storagetest.Exec(t, db, `INSERT INTO bookings (host_id, start_time, end_time, client_email, client_name)
		VALUES (?, ?, ?, 'x@example.com', 'X')`, hostID, bound, bound.Add(time.Hour))

	bookings, err := repo.GetByHostStartingBefore(context.Background(), hostID, bound)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
