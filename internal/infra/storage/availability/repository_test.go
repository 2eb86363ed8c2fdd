package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

func TestRepository_GetActiveByHostID(t *testing.T) {
	db := storagetest.NewSQLite(t)
	repo := NewRepository(db, psqlbuilder.SQLite)

	hostID := storagetest.InsertHost(t, db, "Jane Doe", "jane@example.com", nil, nil)
	otherID := storagetest.InsertHost(t, db, "John Smith", "john@example.com", nil, nil)

	insert := `INSERT INTO availability_rules
		(user_id, day_of_week, start_time, end_time, duration_minutes, buffer_minutes, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	afternoon := storagetest.Exec(t, db, insert, hostID, 1, "13:00", "17:00", 60, 15, true)
	morning := storagetest.Exec(t, db, insert, hostID, 1, "09:00", "12:00", 30, 0, true)
	sunday := storagetest.Exec(t, db, insert, hostID, 0, "10:00", "11:00", 20, 5, true)
	storagetest.Exec(t, db, insert, hostID, 2, "09:00", "12:00", 30, 0, false)
	storagetest.Exec(t, db, insert, otherID, 1, "09:00", "12:00", 30, 0, true)

	rules, err := repo.GetActiveByHostID(context.Background(), hostID)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, sunday, rules[0].ID)
	assert.Equal(t, morning, rules[1].ID)
	assert.Equal(t, afternoon, rules[2].ID)

	r := rules[2]
	assert.Equal(t, hostID, r.HostID)
	assert.Equal(t, 1, r.DayOfWeek)
	assert.Equal(t, "13:00", r.StartTime.String())
	assert.Equal(t, "17:00", r.EndTime.String())
	assert.Equal(t, 60, r.DurationMinutes)
	assert.Equal(t, 15, r.BufferMinutes)
	assert.True(t, r.IsActive)
}

func TestRepository_GetActiveByHostID_Empty(t *testing.T) {
	db := storagetest.NewSQLite(t)
	repo := NewRepository(db, psqlbuilder.SQLite)

	rules, err := repo.GetActiveByHostID(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRepository_MalformedTimeFailsScan(t *testing.T) {
	db := storagetest.NewSQLite(t)
	repo := NewRepository(db, psqlbuilder.SQLite)

	hostID := storagetest.InsertHost(t, db, "Jane Doe", "jane@example.com", nil, nil)
	storagetest.Exec(t, db, `INSERT INTO availability_rules
		(user_id, day_of_week, start_time, end_time, duration_minutes, buffer_minutes, is_active)
		VALUES (?, 1, 'nine', '12:00', 30, 0, 1)`, hostID)

	_, err := repo.GetActiveByHostID(context.Background(), hostID)
	assert.ErrorIs(t, err, ErrScanRow)
}
