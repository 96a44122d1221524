package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/ledger"
)

// New creates a new aggregation Engine over the ledger database.
func New(db *sql.DB) Engine {
	return &engine{db: db}
}

// SessionLeaderboard returns a session's members by balance, highest first.
// Equal balances keep join order.
func (e *engine) SessionLeaderboard(sessionID string) ([]LeaderboardEntry, error) {
	if err := e.sessionExists(sessionID); err != nil {
		return nil, err
	}
	rows, err := e.db.Query(`
		SELECT sp.player_id, p.name, sp.balance
		FROM session_players sp
		JOIN players p ON sp.player_id = p.id
		WHERE sp.session_id = ?
		ORDER BY sp.balance DESC, sp.id ASC
	`, sessionID)
	if err != nil {
		log.Error("Failed to query session leaderboard", "error", err, "sessionID", sessionID)
		return nil, storageErr("session leaderboard", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.PlayerID, &entry.Name, &entry.Balance); err != nil {
			return nil, storageErr("scan leaderboard entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan leaderboard", err)
	}
	return entries, nil
}

// tally accumulates one player's contribution from ledger records.
type tally struct {
	score, wins, losses, games int
	effectiveGames             int
	effectiveWins              int
}

func (t *tally) add(delta int, won bool, points int) {
	t.score += delta
	t.games++
	if won {
		t.wins++
	} else {
		t.losses++
	}
	// One-point transfers are consolation points and do not count as a
	// competitive result.
	if points != 1 {
		t.effectiveGames++
		if won {
			t.effectiveWins++
		}
	}
}

func (t *tally) effectiveWinRate() (float64, bool) {
	if t.effectiveGames == 0 {
		return 0, false
	}
	rate := float64(t.effectiveWins) / float64(t.effectiveGames) * 100
	return math.Round(rate*10) / 10, true
}

// scanTallies reads ledger records and folds them into per-player tallies.
// When only is set, other players are skipped.
func scanTallies(rows *sql.Rows, only string) (map[string]*tally, error) {
	tallies := map[string]*tally{}
	get := func(id string) *tally {
		t, ok := tallies[id]
		if !ok {
			t = &tally{}
			tallies[id] = t
		}
		return t
	}

	for rows.Next() {
		var (
			r        ledger.Record
			loserID2 sql.NullString
		)
		if err := rows.Scan(&r.WinnerID, &r.LoserID, &loserID2, &r.Points); err != nil {
			return nil, storageErr("scan record", err)
		}
		r.LoserID2 = loserID2.String
		if only == "" || only == r.WinnerID {
			get(r.WinnerID).add(r.Delta(r.WinnerID), true, r.Points)
		}
		for _, loserID := range r.Losers() {
			if only == "" || only == loserID {
				get(loserID).add(r.Delta(loserID), false, r.Points)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan records", err)
	}
	return tallies, nil
}

// GlobalLeaderboard sums every player's signed contributions across all
// sessions, optionally limited to a date window. Only players with at least
// one record in the window appear. Rows are ordered by total score, then name.
func (e *engine) GlobalLeaderboard(window Window) ([]GlobalEntry, error) {
	cond, args := window.where("created_at")
	rows, err := e.db.Query("SELECT winner_id, loser_id, loser_id2, points FROM ledger_records WHERE "+cond, args...)
	if err != nil {
		log.Error("Failed to query ledger for global leaderboard", "error", err)
		return nil, storageErr("global leaderboard", err)
	}
	tallies, err := scanTallies(rows, "")
	rows.Close()
	if err != nil {
		return nil, err
	}

	names, err := e.playerNames()
	if err != nil {
		return nil, err
	}

	entries := make([]GlobalEntry, 0, len(tallies))
	for playerID, t := range tallies {
		rate, _ := t.effectiveWinRate()
		entries = append(entries, GlobalEntry{
			PlayerID:         playerID,
			Name:             names[playerID],
			TotalScore:       t.score,
			Wins:             t.wins,
			Losses:           t.losses,
			TotalGames:       t.games,
			EffectiveGames:   t.effectiveGames,
			EffectiveWins:    t.effectiveWins,
			EffectiveWinRate: rate,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	log.Debug("Computed global leaderboard", "players", len(entries), "windowed", !window.IsZero())
	return entries, nil
}

// PlayerStats returns one player's totals across every session.
func (e *engine) PlayerStats(playerID string) (*PlayerStats, error) {
	var name string
	err := e.db.QueryRow("SELECT name FROM players WHERE id = ?", playerID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrPlayerNotFound
	}
	if err != nil {
		return nil, storageErr("get player", err)
	}

	rows, err := e.db.Query(`
		SELECT winner_id, loser_id, loser_id2, points
		FROM ledger_records
		WHERE winner_id = ? OR loser_id = ? OR loser_id2 = ?
	`, playerID, playerID, playerID)
	if err != nil {
		return nil, storageErr("player stats", err)
	}
	tallies, err := scanTallies(rows, playerID)
	rows.Close()
	if err != nil {
		return nil, err
	}

	stats := &PlayerStats{PlayerID: playerID, Name: name}
	if t, ok := tallies[playerID]; ok {
		stats.TotalGames = t.games
		stats.Wins = t.wins
		stats.Losses = t.losses
		stats.TotalScore = t.score
		stats.EffectiveGames = t.effectiveGames
		stats.EffectiveWins = t.effectiveWins
		if rate, ok := t.effectiveWinRate(); ok {
			stats.EffectiveWinRate = &rate
		}
	}
	return stats, nil
}

func (e *engine) sessionExists(sessionID string) error {
	var exists bool
	if err := e.db.QueryRow("SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)", sessionID).Scan(&exists); err != nil {
		return storageErr("check session", err)
	}
	if !exists {
		return ledger.ErrSessionNotFound
	}
	return nil
}

func (e *engine) playerNames() (map[string]string, error) {
	rows, err := e.db.Query("SELECT id, name FROM players")
	if err != nil {
		return nil, storageErr("list player names", err)
	}
	defer rows.Close()

	names := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, storageErr("scan player name", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan player names", err)
	}
	return names, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ledger.ErrStorage, err)
}
