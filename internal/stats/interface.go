package stats

import "github.com/mauv0809/pool-ledger/internal/achievement"

// Engine derives leaderboards, player statistics and achievement tiers from
// the ledger. Nothing it returns is stored.
type Engine interface {
	SessionLeaderboard(sessionID string) ([]LeaderboardEntry, error)
	GlobalLeaderboard(window Window) ([]GlobalEntry, error)
	PlayerStats(playerID string) (*PlayerStats, error)
	AchievementMembers(category achievement.Category, minCount int) ([]AchievementMember, error)
	AchievementRecords(category achievement.Category, playerID string) ([]AchievementRecord, error)
	AchievementSummary(tiers []achievement.Tier) ([]TierSummary, error)
	SpecialWinsBatch(playerIDs []string) (map[string]SpecialWins, error)
	AvailableMonths() ([]Month, error)
}
