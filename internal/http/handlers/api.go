package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/ledger"
)

type nameRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id"`
}

type recordRequest struct {
	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`
	LoserID2 string `json:"loser_id2"`
	Points   int    `json:"points"`
	Category string `json:"category"`
}

// SessionDetail is a session with its members and records.
type SessionDetail struct {
	*ledger.Session
	Players []ledger.SessionPlayer `json:"players"`
	Records []ledger.Record        `json:"records"`
}

func ListPlayersHandler(store ledger.PlayerDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers()
		if err != nil {
			writeError(w, err, "Failed to get players")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func CreatePlayerHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		player, err := svc.CreatePlayer(req.Name)
		if err != nil {
			writeError(w, err, "Failed to create player")
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func GetPlayerHandler(store ledger.PlayerDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := store.GetPlayer(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func RenamePlayerHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		player, err := svc.RenamePlayer(r.PathValue("id"), req.Name)
		if err != nil {
			writeError(w, err, "Failed to rename player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func PlayerRecordsHandler(store ledger.ScoreLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListRecordsForPlayer(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get player records")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// ListSessionsHandler lists sessions. status is one of active, ended or all
// (the default); limit only applies to ended sessions.
func ListSessionsHandler(store ledger.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", 0)
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		var sessions []ledger.Session
		switch status := r.URL.Query().Get("status"); status {
		case "active":
			sessions, err = store.ListActive()
		case "ended":
			sessions, err = store.ListEnded(limit)
		case "", "all":
			sessions, err = store.ListAll()
		default:
			badRequest(w, "status must be active, ended or all")
			return
		}
		if err != nil {
			writeError(w, err, "Failed to get sessions")
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

func CreateSessionHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		session, err := svc.CreateSession(req.Name)
		if err != nil {
			writeError(w, err, "Failed to create session")
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

func GetSessionHandler(store ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		session, err := store.GetSession(id)
		if err != nil {
			writeError(w, err, "Failed to get session")
			return
		}
		players, err := store.ListSessionPlayers(id)
		if err != nil {
			writeError(w, err, "Failed to get session players")
			return
		}
		records, err := store.ListRecords(id)
		if err != nil {
			writeError(w, err, "Failed to get session records")
			return
		}
		writeJSON(w, http.StatusOK, SessionDetail{Session: session, Players: players, Records: records})
	}
}

func DeleteSessionHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteSession(r.PathValue("id")); err != nil {
			writeError(w, err, "Failed to delete session")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// JoinSessionHandler adds a player by id, or by name creating the player when
// the name is new.
func JoinSessionHandler(svc Scoring, store ledger.PlayerDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		sessionID := r.PathValue("id")

		var (
			player *ledger.Player
			err    error
		)
		if req.PlayerID != "" {
			if err = svc.AddPlayer(sessionID, req.PlayerID); err == nil {
				player, err = store.GetPlayer(req.PlayerID)
			}
		} else {
			player, err = svc.JoinSession(sessionID, req.Name)
		}
		if err != nil {
			writeError(w, err, "Failed to join session")
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func SessionPlayersHandler(store ledger.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListSessionPlayers(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get session players")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func AvailablePlayersHandler(store ledger.PlayerDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListAvailablePlayers(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get available players")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func EndSessionHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.EndSession(r.PathValue("id"), IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err, "Failed to end session")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func ListRecordsHandler(store ledger.ScoreLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListRecords(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get records")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func AppendRecordHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		category, err := achievement.ParseCategory(req.Category)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", ledger.ErrInvalidCategory, err), "Failed to record score")
			return
		}
		record, err := svc.RecordScore(ledger.AppendRequest{
			SessionID: r.PathValue("id"),
			WinnerID:  req.WinnerID,
			LoserID:   req.LoserID,
			LoserID2:  req.LoserID2,
			Points:    req.Points,
			Category:  category,
		}, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err, "Failed to record score")
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func DeleteRecordHandler(svc Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			badRequest(w, "record id must be an integer")
			return
		}
		record, err := svc.UndoRecord(id)
		if err != nil {
			writeError(w, err, "Failed to delete record")
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}
