package ledger

import (
	"database/sql"
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/clock"
)

// New creates a new ledger Store. A nil clock uses the system clock and a nil
// classifier uses the default thresholds.
func New(db *sql.DB, clk clock.Clock, classifier *achievement.Classifier) Store {
	if clk == nil {
		clk = clock.New()
	}
	if classifier == nil {
		classifier = achievement.NewClassifier(achievement.DefaultConfig())
	}
	return &store{
		db:         db,
		clock:      clk,
		classifier: classifier,
	}
}

// withTx runs fn inside a transaction and commits only if fn succeeds. Errors
// returned by fn pass through untouched so domain errors keep their kind.
func (s *store) withTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr(op, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr(op, err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

func (s *store) now() int64 {
	return s.clock.Now().Unix()
}

func fromUnix(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}
