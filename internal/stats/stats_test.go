package stats_test

import (
	"testing"
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/clock"
	"github.com/mauv0809/pool-ledger/internal/database"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 20, 0, 0, 0, time.UTC)
}

func setupTestDB(t *testing.T) (stats.Engine, ledger.Store, *clock.Fixed, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	clk := clock.NewFixed(day(time.January, 10))
	store := ledger.New(db, clk, achievement.NewClassifier(achievement.DefaultConfig()))
	return stats.New(db), store, clk, teardown
}

type fixture struct {
	session string
	a, b, c string
}

// seed builds one session that spans January and February 2025:
//
//	Jan 10  A beats B        5
//	Jan 10  A beats B+C     14 big_special
//	Jan 11  B beats A        1
//	Jan 12  C beats A        7 (auto small_special)
//	Feb 02  B beats C        3
func seed(t *testing.T, store ledger.Store, clk *clock.Fixed) fixture {
	t.Helper()

	sessionID, err := store.CreateSession("Long night")
	require.NoError(t, err)
	f := fixture{session: sessionID}
	for _, p := range []struct {
		name string
		id   *string
	}{{"Alice", &f.a}, {"Bob", &f.b}, {"Carol", &f.c}} {
		*p.id, err = store.GetOrCreate(p.name)
		require.NoError(t, err)
		require.NoError(t, store.AddPlayerToSession(sessionID, *p.id))
	}

	appendAt := func(at time.Time, req ledger.AppendRequest) {
		clk.Set(at)
		req.SessionID = sessionID
		_, err := store.AppendRecord(req)
		require.NoError(t, err)
	}
	appendAt(day(time.January, 10), ledger.AppendRequest{WinnerID: f.a, LoserID: f.b, Points: 5})
	appendAt(day(time.January, 10), ledger.AppendRequest{WinnerID: f.a, LoserID: f.b, LoserID2: f.c, Points: 14, Category: achievement.CategoryBigSpecial})
	appendAt(day(time.January, 11), ledger.AppendRequest{WinnerID: f.b, LoserID: f.a, Points: 1})
	appendAt(day(time.January, 12), ledger.AppendRequest{WinnerID: f.c, LoserID: f.a, Points: 7})
	appendAt(day(time.February, 2), ledger.AppendRequest{WinnerID: f.b, LoserID: f.c, Points: 3})
	return f
}

func TestSessionLeaderboard(t *testing.T) {
	engine, store, clk, teardown := setupTestDB(t)
	defer teardown()
	f := seed(t, store, clk)

	board, err := engine.SessionLeaderboard(f.session)
	require.NoError(t, err)
	assert.Equal(t, []stats.LeaderboardEntry{
		{PlayerID: f.a, Name: "Alice", Balance: 11},
		{PlayerID: f.c, Name: "Carol", Balance: -3},
		{PlayerID: f.b, Name: "Bob", Balance: -8},
	}, board)

	_, err = engine.SessionLeaderboard("missing")
	assert.ErrorIs(t, err, ledger.ErrSessionNotFound)
}

func TestGlobalLeaderboard(t *testing.T) {
	engine, store, clk, teardown := setupTestDB(t)
	defer teardown()
	f := seed(t, store, clk)

	t.Run("all time", func(t *testing.T) {
		board, err := engine.GlobalLeaderboard(stats.Window{})
		require.NoError(t, err)
		require.Len(t, board, 3)
		assert.Equal(t, f.a, board[0].PlayerID)
		assert.Equal(t, 11, board[0].TotalScore)
		assert.Equal(t, f.c, board[1].PlayerID)
		assert.Equal(t, -3, board[1].TotalScore)
		assert.Equal(t, f.b, board[2].PlayerID)
		assert.Equal(t, -8, board[2].TotalScore)
	})

	t.Run("january only", func(t *testing.T) {
		window, err := stats.ParseWindow("2025-01-01", "2025-01-31")
		require.NoError(t, err)

		board, err := engine.GlobalLeaderboard(window)
		require.NoError(t, err)
		require.Len(t, board, 3)

		assert.Equal(t, stats.GlobalEntry{
			PlayerID: f.a, Name: "Alice", TotalScore: 11, Wins: 2, Losses: 2,
			TotalGames: 4, EffectiveGames: 3, EffectiveWins: 2, EffectiveWinRate: 66.7,
		}, board[0])
		assert.Equal(t, stats.GlobalEntry{
			PlayerID: f.c, Name: "Carol", TotalScore: 0, Wins: 1, Losses: 1,
			TotalGames: 2, EffectiveGames: 2, EffectiveWins: 1, EffectiveWinRate: 50,
		}, board[1])
		assert.Equal(t, stats.GlobalEntry{
			PlayerID: f.b, Name: "Bob", TotalScore: -11, Wins: 1, Losses: 2,
			TotalGames: 3, EffectiveGames: 2, EffectiveWins: 0, EffectiveWinRate: 0,
		}, board[2])
	})

	t.Run("february only", func(t *testing.T) {
		window, err := stats.MonthRange("2025-02")
		require.NoError(t, err)

		board, err := engine.GlobalLeaderboard(window)
		require.NoError(t, err)
		require.Len(t, board, 2, "players without records in the window are left out")
		assert.Equal(t, f.b, board[0].PlayerID)
		assert.Equal(t, 3, board[0].TotalScore)
		assert.Equal(t, f.c, board[1].PlayerID)
		assert.Equal(t, -3, board[1].TotalScore)
	})

	t.Run("empty window", func(t *testing.T) {
		window, err := stats.MonthRange("2024-12")
		require.NoError(t, err)

		board, err := engine.GlobalLeaderboard(window)
		require.NoError(t, err)
		assert.Empty(t, board)
	})

	t.Run("repeated computation is identical", func(t *testing.T) {
		first, err := engine.GlobalLeaderboard(stats.Window{})
		require.NoError(t, err)
		second, err := engine.GlobalLeaderboard(stats.Window{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("ending the session does not change totals", func(t *testing.T) {
		before, err := engine.GlobalLeaderboard(stats.Window{})
		require.NoError(t, err)
		require.NoError(t, store.EndSession(f.session))
		after, err := engine.GlobalLeaderboard(stats.Window{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestPlayerStats(t *testing.T) {
	engine, store, clk, teardown := setupTestDB(t)
	defer teardown()
	f := seed(t, store, clk)

	alice, err := engine.PlayerStats(f.a)
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 4, alice.TotalGames)
	assert.Equal(t, 2, alice.Wins)
	assert.Equal(t, 2, alice.Losses)
	assert.Equal(t, 11, alice.TotalScore)
	require.NotNil(t, alice.EffectiveWinRate)
	assert.Equal(t, 66.7, *alice.EffectiveWinRate)

	bob, err := engine.PlayerStats(f.b)
	require.NoError(t, err)
	assert.Equal(t, 4, bob.TotalGames)
	assert.Equal(t, -8, bob.TotalScore)
	require.NotNil(t, bob.EffectiveWinRate)
	assert.Equal(t, 33.3, *bob.EffectiveWinRate)

	t.Run("player without records", func(t *testing.T) {
		dave, err := store.CreatePlayer("Dave")
		require.NoError(t, err)

		s, err := engine.PlayerStats(dave)
		require.NoError(t, err)
		assert.Zero(t, s.TotalGames)
		assert.Nil(t, s.EffectiveWinRate)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := engine.PlayerStats("missing")
		assert.ErrorIs(t, err, ledger.ErrPlayerNotFound)
	})
}

func TestAchievements(t *testing.T) {
	engine, store, clk, teardown := setupTestDB(t)
	defer teardown()

	sessionID, err := store.CreateSession("Specials")
	require.NoError(t, err)
	x, err := store.GetOrCreate("Xavier")
	require.NoError(t, err)
	y, err := store.GetOrCreate("Yara")
	require.NoError(t, err)
	z, err := store.GetOrCreate("Zed")
	require.NoError(t, err)
	for _, id := range []string{x, y, z} {
		require.NoError(t, store.AddPlayerToSession(sessionID, id))
	}

	win := func(at time.Time, winner, loser string, points int) {
		clk.Set(at)
		_, err := store.AppendRecord(ledger.AppendRequest{SessionID: sessionID, WinnerID: winner, LoserID: loser, Points: points})
		require.NoError(t, err)
	}
	// Yara reaches two small specials last but won the first one earliest.
	win(day(time.January, 1), y, z, 7)
	win(day(time.January, 2), x, z, 8)
	win(day(time.January, 3), x, z, 9)
	win(day(time.January, 4), y, z, 7)
	win(day(time.January, 5), z, x, 2)

	t.Run("members ordered by count then first date", func(t *testing.T) {
		members, err := engine.AchievementMembers(achievement.CategorySmallSpecial, 2)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, y, members[0].PlayerID)
		assert.Equal(t, 2, members[0].Count)
		assert.Equal(t, day(time.January, 1), members[0].FirstDate)
		assert.Equal(t, day(time.January, 4), members[0].LastDate)
		assert.Equal(t, x, members[1].PlayerID)

		members, err = engine.AchievementMembers(achievement.CategorySmallSpecial, 3)
		require.NoError(t, err)
		assert.Empty(t, members)

		members, err = engine.AchievementMembers(achievement.CategoryBigSpecial, 1)
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("records behind a badge", func(t *testing.T) {
		records, err := engine.AchievementRecords(achievement.CategorySmallSpecial, x)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 9, records[0].Points, "newest first")
		assert.Equal(t, "Xavier", records[0].WinnerName)
		assert.Equal(t, "Specials", records[0].SessionName)

		all, err := engine.AchievementRecords(achievement.CategorySmallSpecial, "")
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("summary per tier", func(t *testing.T) {
		tiers := []achievement.Tier{
			{Name: "one", Category: achievement.CategorySmallSpecial, MinCount: 1},
			{Name: "two", Category: achievement.CategorySmallSpecial, MinCount: 2},
			{Name: "three", Category: achievement.CategorySmallSpecial, MinCount: 3},
			{Name: "big", Category: achievement.CategoryBigSpecial, MinCount: 1},
		}
		summary, err := engine.AchievementSummary(tiers)
		require.NoError(t, err)
		require.Len(t, summary, 4)
		assert.Equal(t, 2, summary[0].PlayerCount)
		assert.Equal(t, 2, summary[1].PlayerCount)
		assert.Equal(t, 0, summary[2].PlayerCount)
		assert.Equal(t, 0, summary[3].PlayerCount)
		assert.Equal(t, "two", summary[1].Name)
	})

	t.Run("special wins in one batch", func(t *testing.T) {
		wins, err := engine.SpecialWinsBatch([]string{x, z, "unknown"})
		require.NoError(t, err)
		assert.Equal(t, map[string]stats.SpecialWins{
			x:         {HasSmallSpecial: true},
			z:         {},
			"unknown": {},
		}, wins)

		wins, err = engine.SpecialWinsBatch(nil)
		require.NoError(t, err)
		assert.Empty(t, wins)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := engine.AchievementMembers("legendary", 1)
		assert.ErrorIs(t, err, ledger.ErrInvalidCategory)
		_, err = engine.AchievementRecords("legendary", "")
		assert.ErrorIs(t, err, ledger.ErrInvalidCategory)
	})
}

func TestAvailableMonths(t *testing.T) {
	engine, store, clk, teardown := setupTestDB(t)
	defer teardown()

	months, err := engine.AvailableMonths()
	require.NoError(t, err)
	assert.Empty(t, months)

	for _, at := range []time.Time{day(time.January, 3), day(time.February, 1), day(time.February, 20)} {
		clk.Set(at)
		_, err := store.CreateSession("s")
		require.NoError(t, err)
	}

	months, err = engine.AvailableMonths()
	require.NoError(t, err)
	assert.Equal(t, []stats.Month{
		{Key: "2025-02", Year: 2025, Month: 2, SessionCount: 2},
		{Key: "2025-01", Year: 2025, Month: 1, SessionCount: 1},
	}, months)
}

func TestWindow(t *testing.T) {
	t.Run("month range covers the whole month", func(t *testing.T) {
		w, err := stats.MonthRange("2024-02")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("open bounds", func(t *testing.T) {
		w, err := stats.ParseWindow("", "")
		require.NoError(t, err)
		assert.True(t, w.IsZero())

		w, err = stats.ParseWindow("2025-01-01", "")
		require.NoError(t, err)
		assert.False(t, w.IsZero())
		assert.True(t, w.End.IsZero())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := stats.ParseWindow("01/01/2025", "")
		assert.Error(t, err)
		_, err = stats.ParseWindow("2025-02-01", "2025-01-01")
		assert.Error(t, err)
		_, err = stats.MonthRange("2025-13")
		assert.Error(t, err)
	})
}
