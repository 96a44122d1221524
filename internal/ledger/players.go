package ledger

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// CreatePlayer registers a new player and returns its id.
func (s *store) CreatePlayer(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var playerID string
	err := s.withTx("create player", func(tx *sql.Tx) error {
		_, found, err := findByName(tx, name)
		if err != nil {
			return err
		}
		if found {
			return ErrDuplicateName
		}
		playerID, err = s.insertPlayer(tx, name)
		return err
	})
	if err != nil {
		return "", err
	}

	log.Info("Created player", "playerID", playerID, "name", name)
	return playerID, nil
}

// FindByName looks up a player id by exact display name.
func (s *store) FindByName(name string) (string, bool, error) {
	return findByName(s.db, strings.TrimSpace(name))
}

// GetOrCreate returns the id of the player called name, creating it if needed.
// The lookup and insert run under the mutation lock so concurrent callers
// never create two players with the same name.
func (s *store) GetOrCreate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		playerID string
		created  bool
	)
	err := s.withTx("get or create player", func(tx *sql.Tx) error {
		id, found, err := findByName(tx, name)
		if err != nil {
			return err
		}
		if found {
			playerID = id
			return nil
		}
		playerID, err = s.insertPlayer(tx, name)
		created = err == nil
		return err
	})
	if err != nil {
		return "", err
	}

	if created {
		log.Info("Discovered and added new player", "playerID", playerID, "name", name)
	}
	return playerID, nil
}

// Rename changes a player's display name. Ledger records reference ids, so
// nothing else needs rewriting.
func (s *store) Rename(playerID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withTx("rename player", func(tx *sql.Tx) error {
		if _, err := getPlayer(tx, playerID); err != nil {
			return err
		}
		existingID, found, err := findByName(tx, newName)
		if err != nil {
			return err
		}
		if found && existingID != playerID {
			return ErrDuplicateName
		}
		if _, err := tx.Exec("UPDATE players SET name = ?, updated_at = ? WHERE id = ?", newName, s.now(), playerID); err != nil {
			return storageErr("rename player", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Renamed player", "playerID", playerID, "name", newName)
	return nil
}

// GetPlayer returns a player by id.
func (s *store) GetPlayer(playerID string) (*Player, error) {
	return getPlayer(s.db, playerID)
}

// ListPlayers returns every player ordered by name.
func (s *store) ListPlayers() ([]Player, error) {
	rows, err := s.db.Query("SELECT id, name, created_at, updated_at FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, storageErr("list players", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// ListAvailablePlayers returns the players that are not members of
// excludeSessionID. An empty id returns every player.
func (s *store) ListAvailablePlayers(excludeSessionID string) ([]Player, error) {
	if excludeSessionID == "" {
		return s.ListPlayers()
	}
	if _, err := getSession(s.db, excludeSessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT id, name, created_at, updated_at
		FROM players
		WHERE id NOT IN (SELECT player_id FROM session_players WHERE session_id = ?)
		ORDER BY name
	`, excludeSessionID)
	if err != nil {
		return nil, storageErr("list available players", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *store) insertPlayer(tx *sql.Tx, name string) (string, error) {
	playerID := uuid.New().String()
	now := s.now()
	_, err := tx.Exec("INSERT INTO players (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)", playerID, name, now, now)
	if err != nil {
		return "", storageErr("insert player", err)
	}
	return playerID, nil
}

func findByName(q queryer, name string) (string, bool, error) {
	var playerID string
	err := q.QueryRow("SELECT id FROM players WHERE name = ?", name).Scan(&playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("find player by name", err)
	}
	return playerID, true, nil
}

func getPlayer(q queryer, playerID string) (*Player, error) {
	var (
		p                    Player
		createdAt, updatedAt int64
	)
	err := q.QueryRow("SELECT id, name, created_at, updated_at FROM players WHERE id = ?", playerID).
		Scan(&p.ID, &p.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, storageErr("get player", err)
	}
	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updatedAt)
	return &p, nil
}

func scanPlayers(rows *sql.Rows) ([]Player, error) {
	players := []Player{}
	for rows.Next() {
		var (
			p                    Player
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &createdAt, &updatedAt); err != nil {
			return nil, storageErr("scan player", err)
		}
		p.CreatedAt = fromUnix(createdAt)
		p.UpdatedAt = fromUnix(updatedAt)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan players", err)
	}
	return players, nil
}
