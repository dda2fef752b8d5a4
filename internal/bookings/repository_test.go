package bookings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestLockTripInventory_emitsRowLock(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	var inventory TripInventory
	stmt := LockTripInventory(db, uuid.New(), "2026-09-15", "06:00").
		Find(&inventory).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "trip_inventories")
	assert.Contains(t, sql, "FOR UPDATE")
	assert.Contains(t, sql, "bus_id = ? AND travel_date = ? AND time_slot = ?")
}
