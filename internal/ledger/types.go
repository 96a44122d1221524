package ledger

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/clock"
)

// store handles all database operations for players, sessions and the ledger.
// mu serializes every mutation; reads go straight to the database and rely on
// transaction boundaries to never see a half-applied mutation.
type store struct {
	db         *sql.DB
	mu         sync.Mutex
	clock      clock.Clock
	classifier *achievement.Classifier
}

// Player is a cross-session identity. Only Name is mutable.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is a scorekeeping episode.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	PlayerIDs []string   `json:"player_ids"`
}

// SessionPlayer is a membership row joined with the player's name.
type SessionPlayer struct {
	SessionID string    `json:"session_id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Balance   int       `json:"balance"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Record is one immutable point transfer from one or two losers to a winner.
type Record struct {
	ID        int64                `json:"id"`
	SessionID string               `json:"session_id"`
	WinnerID  string               `json:"winner_id"`
	LoserID   string               `json:"loser_id"`
	LoserID2  string               `json:"loser_id2,omitempty"`
	Points    int                  `json:"points"`
	Category  achievement.Category `json:"category"`
	CreatedAt time.Time            `json:"created_at"`
}

// IsSplit reports whether two losers share the loss.
func (r Record) IsSplit() bool {
	return r.LoserID2 != ""
}

// LoserPoints is what each loser gives up. For split records it is
// Points/2 rounded down; an odd remainder leaves circulation.
func (r Record) LoserPoints() int {
	if r.IsSplit() {
		return r.Points / 2
	}
	return r.Points
}

// Losers returns the one or two losing player ids.
func (r Record) Losers() []string {
	if r.IsSplit() {
		return []string{r.LoserID, r.LoserID2}
	}
	return []string{r.LoserID}
}

// Delta returns the signed balance change the record applies to playerID.
func (r Record) Delta(playerID string) int {
	switch playerID {
	case r.WinnerID:
		return r.Points
	case r.LoserID:
		return -r.LoserPoints()
	}
	if r.IsSplit() && playerID == r.LoserID2 {
		return -r.LoserPoints()
	}
	return 0
}

// PlayerRecord is a record seen from one participant's side.
type PlayerRecord struct {
	Record
	SessionName string `json:"session_name"`
	IsWinner    bool   `json:"is_winner"`
	Delta       int    `json:"delta"`
}

// AppendRequest describes a scoring event to append.
type AppendRequest struct {
	SessionID string               `json:"session_id"`
	WinnerID  string               `json:"winner_id"`
	LoserID   string               `json:"loser_id"`
	LoserID2  string               `json:"loser_id2,omitempty"`
	Points    int                  `json:"points"`
	Category  achievement.Category `json:"category,omitempty"`
}
