package stats

import (
	"database/sql"
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/ledger"
)

// engine computes every view on demand from the ledger tables. It never
// writes and takes no lock.
type engine struct {
	db *sql.DB
}

// LeaderboardEntry is one row of a session leaderboard.
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Balance  int    `json:"balance"`
}

// GlobalEntry is one row of the cross-session leaderboard.
type GlobalEntry struct {
	PlayerID         string  `json:"player_id"`
	Name             string  `json:"name"`
	TotalScore       int     `json:"total_score"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	TotalGames       int     `json:"total_games"`
	EffectiveGames   int     `json:"effective_games"`
	EffectiveWins    int     `json:"effective_wins"`
	EffectiveWinRate float64 `json:"effective_win_rate"`
}

// PlayerStats summarises a single player's history. EffectiveWinRate is nil
// until the player has at least one record worth more than one point.
type PlayerStats struct {
	PlayerID         string   `json:"player_id"`
	Name             string   `json:"name"`
	TotalGames       int      `json:"total_games"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	TotalScore       int      `json:"total_score"`
	EffectiveGames   int      `json:"effective_games"`
	EffectiveWins    int      `json:"effective_wins"`
	EffectiveWinRate *float64 `json:"effective_win_rate"`
}

// AchievementMember is a player who reached a tier.
type AchievementMember struct {
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
}

// AchievementRecord is a category-tagged win with display names resolved.
type AchievementRecord struct {
	ledger.Record
	WinnerName  string `json:"winner_name"`
	SessionName string `json:"session_name"`
}

// TierSummary reports how many players qualify for a tier.
type TierSummary struct {
	achievement.Tier
	PlayerCount int `json:"player_count"`
}

// SpecialWins flags which special categories a player has ever won.
type SpecialWins struct {
	HasSmallSpecial bool `json:"has_small_special"`
	HasBigSpecial   bool `json:"has_big_special"`
}

// Month is a year-month bucket of sessions.
type Month struct {
	Key          string `json:"key"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	SessionCount int    `json:"session_count"`
}
