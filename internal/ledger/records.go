package ledger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/achievement"
)

const recordColumns = "id, session_id, winner_id, loser_id, loser_id2, points, category, created_at"

// AppendRecord validates a scoring event, appends it and moves the points
// between balances in one transaction. With two losers each loses Points/2;
// an odd remainder is not redistributed.
func (s *store) AppendRecord(req AppendRequest) (*Record, error) {
	if err := validateAppend(req); err != nil {
		return nil, err
	}
	category := s.classifier.Classify(req.Points, req.LoserID2 != "", req.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := &Record{
		SessionID: req.SessionID,
		WinnerID:  req.WinnerID,
		LoserID:   req.LoserID,
		LoserID2:  req.LoserID2,
		Points:    req.Points,
		Category:  category,
		CreatedAt: fromUnix(s.now()),
	}

	err := s.withTx("append record", func(tx *sql.Tx) error {
		session, err := getSession(tx, req.SessionID)
		if err != nil {
			return err
		}
		if !session.Active {
			return ErrSessionEnded
		}
		for _, playerID := range append([]string{record.WinnerID}, record.Losers()...) {
			member, err := isMember(tx, record.SessionID, playerID)
			if err != nil {
				return err
			}
			if !member {
				return fmt.Errorf("%w: %s", ErrPlayerNotMember, playerID)
			}
		}

		res, err := tx.Exec(`
			INSERT INTO ledger_records (session_id, winner_id, loser_id, loser_id2, points, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, record.SessionID, record.WinnerID, record.LoserID, nullString(record.LoserID2), record.Points, string(record.Category), record.CreatedAt.Unix())
		if err != nil {
			return storageErr("insert record", err)
		}
		if record.ID, err = res.LastInsertId(); err != nil {
			return storageErr("insert record", err)
		}
		return applyBalances(tx, record, 1)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Appended ledger record",
		"recordID", record.ID, "sessionID", record.SessionID, "winner", record.WinnerID,
		"losers", record.Losers(), "points", record.Points, "category", record.Category)
	return record, nil
}

// DeleteRecord reverses a record's balance effect exactly and removes it. The
// deleted record is returned so callers can report what was undone. Records of
// ended sessions cannot be deleted.
func (s *store) DeleteRecord(recordID int64) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var record *Record
	err := s.withTx("delete record", func(tx *sql.Tx) error {
		var err error
		record, err = getRecord(tx, recordID)
		if err != nil {
			return err
		}
		session, err := getSession(tx, record.SessionID)
		if err != nil {
			return err
		}
		if !session.Active {
			return ErrSessionEnded
		}
		if err := applyBalances(tx, record, -1); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM ledger_records WHERE id = ?", recordID); err != nil {
			return storageErr("delete record", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Deleted ledger record", "recordID", record.ID, "sessionID", record.SessionID, "points", record.Points)
	return record, nil
}

// GetRecord returns a single record by id.
func (s *store) GetRecord(recordID int64) (*Record, error) {
	return getRecord(s.db, recordID)
}

// ListRecords returns a session's records, newest first.
func (s *store) ListRecords(sessionID string) ([]Record, error) {
	if _, err := getSession(s.db, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT "+recordColumns+" FROM ledger_records WHERE session_id = ? ORDER BY id DESC", sessionID)
	if err != nil {
		return nil, storageErr("list records", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan record", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan records", err)
	}
	return records, nil
}

// ListRecordsForPlayer returns every record the player took part in, newest
// first, with the player's role and signed score delta.
func (s *store) ListRecordsForPlayer(playerID string) ([]PlayerRecord, error) {
	if _, err := getPlayer(s.db, playerID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT r.id, r.session_id, r.winner_id, r.loser_id, r.loser_id2, r.points, r.category, r.created_at, s.name
		FROM ledger_records r
		JOIN sessions s ON r.session_id = s.id
		WHERE r.winner_id = ? OR r.loser_id = ? OR r.loser_id2 = ?
		ORDER BY r.id DESC
	`, playerID, playerID, playerID)
	if err != nil {
		return nil, storageErr("list player records", err)
	}
	defer rows.Close()

	records := []PlayerRecord{}
	for rows.Next() {
		var pr PlayerRecord
		record, err := scanRecord(rows, &pr.SessionName)
		if err != nil {
			return nil, storageErr("scan player record", err)
		}
		pr.Record = *record
		pr.IsWinner = record.WinnerID == playerID
		pr.Delta = record.Delta(playerID)
		records = append(records, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan player records", err)
	}
	return records, nil
}

type balanceChange struct {
	playerID string
	delta    int
}

// applyBalances credits the winner and debits the losers, or undoes exactly
// that when sign is -1.
func applyBalances(tx *sql.Tx, record *Record, sign int) error {
	changes := []balanceChange{{record.WinnerID, sign * record.Points}}
	for _, loserID := range record.Losers() {
		changes = append(changes, balanceChange{loserID, -sign * record.LoserPoints()})
	}

	for _, c := range changes {
		res, err := tx.Exec("UPDATE session_players SET balance = balance + ? WHERE session_id = ? AND player_id = ?", c.delta, record.SessionID, c.playerID)
		if err != nil {
			return storageErr("update balance", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("update balance", err)
		}
		if n != 1 {
			return storageErr("update balance", fmt.Errorf("membership of %s in session %s is missing", c.playerID, record.SessionID))
		}
	}
	return nil
}

func validateAppend(req AppendRequest) error {
	if req.Points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrInvalidPoints, req.Points)
	}
	if req.LoserID2 != "" && req.Points < 2 {
		return fmt.Errorf("%w: a split needs at least 2 points, got %d", ErrInvalidPoints, req.Points)
	}
	if req.WinnerID == "" || req.LoserID == "" {
		return fmt.Errorf("%w: winner and loser are required", ErrInvalidParticipants)
	}
	if req.WinnerID == req.LoserID || req.WinnerID == req.LoserID2 {
		return fmt.Errorf("%w: winner cannot also lose", ErrInvalidParticipants)
	}
	if req.LoserID2 != "" && req.LoserID == req.LoserID2 {
		return fmt.Errorf("%w: losers must be different players", ErrInvalidParticipants)
	}
	return nil
}

func getRecord(q queryer, recordID int64) (*Record, error) {
	record, err := scanRecord(q.QueryRow("SELECT "+recordColumns+" FROM ledger_records WHERE id = ?", recordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, storageErr("get record", err)
	}
	return record, nil
}

// scanRecord reads the record columns followed by any extra destinations.
func scanRecord(scanner interface{ Scan(...any) error }, extra ...any) (*Record, error) {
	var (
		r         Record
		loserID2  sql.NullString
		category  string
		createdAt int64
	)
	dest := append([]any{&r.ID, &r.SessionID, &r.WinnerID, &r.LoserID, &loserID2, &r.Points, &category, &createdAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	r.LoserID2 = loserID2.String
	r.Category = achievement.Category(category)
	r.CreatedAt = fromUnix(createdAt)
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
