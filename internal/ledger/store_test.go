package ledger_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/clock"
	"github.com/mauv0809/pool-ledger/internal/database"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory SQLite database with a ledger store on top.
func setupTestDB(t *testing.T) (ledger.Store, *sql.DB, *clock.Fixed, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	clk := clock.NewFixed(baseTime)
	store := ledger.New(db, clk, achievement.NewClassifier(achievement.DefaultConfig()))
	return store, db, clk, teardown
}

// newSessionWith creates an active session and adds the named players to it.
// It returns the session id and the player ids in the order given.
func newSessionWith(t *testing.T, store ledger.Store, names ...string) (string, []string) {
	t.Helper()

	sessionID, err := store.CreateSession("Friday night")
	require.NoError(t, err)

	ids := make([]string, len(names))
	for i, name := range names {
		ids[i], err = store.GetOrCreate(name)
		require.NoError(t, err)
		require.NoError(t, store.AddPlayerToSession(sessionID, ids[i]))
	}
	return sessionID, ids
}

func balances(t *testing.T, store ledger.Store, sessionID string) map[string]int {
	t.Helper()

	players, err := store.ListSessionPlayers(sessionID)
	require.NoError(t, err)
	out := make(map[string]int, len(players))
	for _, p := range players {
		out[p.PlayerID] = p.Balance
	}
	return out
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
