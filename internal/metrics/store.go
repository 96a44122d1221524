package metrics

import (
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// store persists activity counters in the activity_counters table.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new CounterStore.
func New(db *sql.DB) CounterStore {
	return &store{
		db: db,
	}
}

// Increment upserts a counter key and increments its value by one. Failures
// are logged and otherwise ignored; counters never fail a ledger mutation.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO activity_counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1
	`, key)
	if err != nil {
		log.Error("Failed to increment activity counter", "error", err, "key", key)
		return
	}
	log.Debug("Incremented activity counter", "key", key)
}

// GetAll returns every counter.
func (s *store) GetAll() (map[string]int, error) {
	rows, err := s.db.Query("SELECT key, value FROM activity_counters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			value int
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
