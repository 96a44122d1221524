package handlers

import (
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/notifier"
)

// Scoring is the mutation surface the handlers need. scoring.Service
// implements it.
type Scoring interface {
	CreatePlayer(name string) (*ledger.Player, error)
	RenamePlayer(playerID, name string) (*ledger.Player, error)
	CreateSession(name string) (*ledger.Session, error)
	JoinSession(sessionID, name string) (*ledger.Player, error)
	AddPlayer(sessionID, playerID string) error
	RecordScore(req ledger.AppendRequest, dryRun bool) (*ledger.Record, error)
	UndoRecord(recordID int64) (*ledger.Record, error)
	EndSession(sessionID string, dryRun bool) (*notifier.SessionSummary, error)
	DeleteSession(sessionID string) error
	NotifySessionEnded(summary notifier.SessionSummary, dryRun bool) error
	NotifySpecialWin(win notifier.SpecialWin, dryRun bool) error
}
