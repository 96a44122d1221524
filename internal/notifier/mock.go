package notifier

import (
	"sync"

	"github.com/mauv0809/pool-ledger/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Errors returned by the Send methods when set.
	SendSessionSummaryErr error
	SendSpecialWinErr     error

	// Call records
	SendSessionSummaryCalls []SessionSummary
	SendSpecialWinCalls     []SpecialWin
	SendLeaderboardCalls    [][]stats.GlobalEntry
	PlayerStatsResponses    []*stats.PlayerStats
	PlayerNotFoundResponses []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSessionSummaryCalls = nil
	m.SendSpecialWinCalls = nil
	m.SendLeaderboardCalls = nil
	m.PlayerStatsResponses = nil
	m.PlayerNotFoundResponses = nil
}

func (m *Mock) SendSessionSummary(summary SessionSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSessionSummaryCalls = append(m.SendSessionSummaryCalls, summary)
	return m.SendSessionSummaryErr
}

func (m *Mock) SendSpecialWin(win SpecialWin, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSpecialWinCalls = append(m.SendSpecialWinCalls, win)
	return m.SendSpecialWinErr
}

func (m *Mock) SendLeaderboard(entries []stats.GlobalEntry, title string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []stats.GlobalEntry, title string) (any, error) {
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(s *stats.PlayerStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerStatsResponses = append(m.PlayerStatsResponses, s)
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerNotFoundResponses = append(m.PlayerNotFoundResponses, query)
	return "formatted_player_not_found", nil
}

// SessionSummaries returns a copy of the recorded SendSessionSummary calls.
func (m *Mock) SessionSummaries() []SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SessionSummary(nil), m.SendSessionSummaryCalls...)
}

// SpecialWins returns a copy of the recorded SendSpecialWin calls.
func (m *Mock) SpecialWins() []SpecialWin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SpecialWin(nil), m.SendSpecialWinCalls...)
}
