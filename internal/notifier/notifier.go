package notifier

import (
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/stats"
)

// SessionSummary is the final state of an ended session.
type SessionSummary struct {
	SessionID   string                   `json:"session_id"`
	SessionName string                   `json:"session_name"`
	EndedAt     time.Time                `json:"ended_at"`
	RecordCount int                      `json:"record_count"`
	Leaderboard []stats.LeaderboardEntry `json:"leaderboard"`
}

// SpecialWin describes a record tagged with a special category.
type SpecialWin struct {
	SessionID   string               `json:"session_id"`
	SessionName string               `json:"session_name"`
	RecordID    int64                `json:"record_id"`
	WinnerName  string               `json:"winner_name"`
	LoserNames  []string             `json:"loser_names"`
	Points      int                  `json:"points"`
	Category    achievement.Category `json:"category"`
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For session lifecycle and scoring events
	SendSessionSummary(summary SessionSummary, dryRun bool) error
	SendSpecialWin(win SpecialWin, dryRun bool) error
	// For slash commands
	SendLeaderboard(entries []stats.GlobalEntry, title string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []stats.GlobalEntry, title string) (any, error)
	FormatPlayerStatsResponse(stats *stats.PlayerStats) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
