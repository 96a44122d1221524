package metrics

import (
	"os"
	"testing"

	"github.com/mauv0809/pool-ledger/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary file-backed SQLite database for testing.
func setupTestDB(t *testing.T) (CounterStore, func()) {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "testdb_counters_*.db")
	require.NoError(t, err)
	tmpfile.Close()

	db, closeDB, err := database.InitDB(tmpfile.Name(), "", "")
	require.NoError(t, err)

	teardown := func() {
		closeDB()
		os.Remove(tmpfile.Name())
	}
	return New(db), teardown
}

func TestIncrementAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	counters, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, counters)

	store.Increment(CounterRecordsAppended)
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{CounterRecordsAppended: 1}, counters)

	store.Increment(CounterRecordsAppended)
	store.Increment(CounterSessionsEnded)
	counters, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		CounterRecordsAppended: 2,
		CounterSessionsEnded:   1,
	}, counters)
}
