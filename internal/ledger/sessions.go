package ledger

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const sessionColumns = "id, name, active, created_at, ended_at"

// CreateSession starts a new active session with no members.
func (s *store) CreateSession(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.New().String()
	_, err := s.db.Exec("INSERT INTO sessions (id, name, active, created_at) VALUES (?, ?, 1, ?)", sessionID, name, s.now())
	if err != nil {
		log.Error("Failed to create session", "error", err, "name", name)
		return "", storageErr("create session", err)
	}

	log.Info("Created session", "sessionID", sessionID, "name", name)
	return sessionID, nil
}

// GetSession returns a session with its member ids in join order.
func (s *store) GetSession(sessionID string) (*Session, error) {
	session, err := getSession(s.db, sessionID)
	if err != nil {
		return nil, err
	}
	sessions := []Session{*session}
	if err := s.attachMembers(sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// ListActive returns active sessions, newest first.
func (s *store) ListActive() ([]Session, error) {
	return s.listSessions("list active sessions", `
		SELECT `+sessionColumns+` FROM sessions
		WHERE active = 1
		ORDER BY created_at DESC, rowid DESC
	`)
}

// ListEnded returns ended sessions ordered by end time, newest first. A
// non-positive limit returns all of them.
func (s *store) ListEnded(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.listSessions("list ended sessions", `
		SELECT `+sessionColumns+` FROM sessions
		WHERE active = 0
		ORDER BY COALESCE(ended_at, created_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
}

// ListAll returns every session, newest first.
func (s *store) ListAll() ([]Session, error) {
	return s.listSessions("list sessions", `
		SELECT `+sessionColumns+` FROM sessions
		ORDER BY created_at DESC, rowid DESC
	`)
}

// EndSession marks a session inactive and stamps ended_at. Ending an already
// ended session succeeds and re-stamps ended_at.
func (s *store) EndSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE sessions SET active = 0, ended_at = ? WHERE id = ?", s.now(), sessionID)
	if err != nil {
		return storageErr("end session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("end session", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}

	log.Info("Ended session", "sessionID", sessionID)
	return nil
}

// DeleteSession removes a session with all of its memberships and records.
// Players are kept.
func (s *store) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removedRecords int64
	err := s.withTx("delete session", func(tx *sql.Tx) error {
		if _, err := getSession(tx, sessionID); err != nil {
			return err
		}
		res, err := tx.Exec("DELETE FROM ledger_records WHERE session_id = ?", sessionID)
		if err != nil {
			return storageErr("delete session records", err)
		}
		removedRecords, _ = res.RowsAffected()
		if _, err := tx.Exec("DELETE FROM session_players WHERE session_id = ?", sessionID); err != nil {
			return storageErr("delete session players", err)
		}
		if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
			return storageErr("delete session", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Deleted session", "sessionID", sessionID, "records_removed", removedRecords)
	return nil
}

// AddPlayerToSession makes playerID a member of an active session with a zero
// balance.
func (s *store) AddPlayerToSession(sessionID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withTx("add player to session", func(tx *sql.Tx) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if !session.Active {
			return ErrSessionEnded
		}
		if _, err := getPlayer(tx, playerID); err != nil {
			return err
		}
		member, err := isMember(tx, sessionID, playerID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyMember
		}
		_, err = tx.Exec("INSERT INTO session_players (session_id, player_id, balance, joined_at) VALUES (?, ?, 0, ?)", sessionID, playerID, s.now())
		if err != nil {
			return storageErr("insert session player", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Added player to session", "sessionID", sessionID, "playerID", playerID)
	return nil
}

// ListSessionPlayers returns the members of a session with their balances,
// highest balance first. Equal balances keep join order.
func (s *store) ListSessionPlayers(sessionID string) ([]SessionPlayer, error) {
	if _, err := getSession(s.db, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT sp.session_id, sp.player_id, p.name, sp.balance, sp.joined_at
		FROM session_players sp
		JOIN players p ON sp.player_id = p.id
		WHERE sp.session_id = ?
		ORDER BY sp.balance DESC, sp.id ASC
	`, sessionID)
	if err != nil {
		return nil, storageErr("list session players", err)
	}
	defer rows.Close()

	players := []SessionPlayer{}
	for rows.Next() {
		var (
			sp       SessionPlayer
			joinedAt int64
		)
		if err := rows.Scan(&sp.SessionID, &sp.PlayerID, &sp.Name, &sp.Balance, &joinedAt); err != nil {
			return nil, storageErr("scan session player", err)
		}
		sp.JoinedAt = fromUnix(joinedAt)
		players = append(players, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan session players", err)
	}
	return players, nil
}

func (s *store) listSessions(op, query string, args ...any) ([]Session, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query sessions", "error", err, "op", op)
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	if err := s.attachMembers(sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// attachMembers fills PlayerIDs for the given sessions with a single query.
func (s *store) attachMembers(sessions []Session) error {
	if len(sessions) == 0 {
		return nil
	}
	index := make(map[string]int, len(sessions))
	ids := make([]string, len(sessions))
	for i := range sessions {
		sessions[i].PlayerIDs = []string{}
		index[sessions[i].ID] = i
		ids[i] = sessions[i].ID
	}

	rows, err := s.db.Query(`
		SELECT session_id, player_id FROM session_players
		WHERE session_id IN (`+placeholders(len(ids))+`)
		ORDER BY id ASC
	`, toAnySlice(ids)...)
	if err != nil {
		return storageErr("list session members", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID, playerID string
		if err := rows.Scan(&sessionID, &playerID); err != nil {
			return storageErr("scan session member", err)
		}
		i := index[sessionID]
		sessions[i].PlayerIDs = append(sessions[i].PlayerIDs, playerID)
	}
	if err := rows.Err(); err != nil {
		return storageErr("scan session members", err)
	}
	return nil
}

func getSession(q queryer, sessionID string) (*Session, error) {
	session, err := scanSession(q.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ?", sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, storageErr("get session", err)
	}
	return session, nil
}

func scanSession(scanner interface{ Scan(...any) error }) (*Session, error) {
	var (
		session   Session
		createdAt int64
		endedAt   sql.NullInt64
	)
	if err := scanner.Scan(&session.ID, &session.Name, &session.Active, &createdAt, &endedAt); err != nil {
		return nil, err
	}
	session.CreatedAt = fromUnix(createdAt)
	if endedAt.Valid {
		t := fromUnix(endedAt.Int64)
		session.EndedAt = &t
	}
	return &session, nil
}

func isMember(q queryer, sessionID, playerID string) (bool, error) {
	var exists bool
	err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM session_players WHERE session_id = ? AND player_id = ?)", sessionID, playerID).Scan(&exists)
	if err != nil {
		return false, storageErr("check membership", err)
	}
	return exists, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func toAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
