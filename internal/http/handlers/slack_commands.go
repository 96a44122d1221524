package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/notifier"
	"github.com/mauv0809/pool-ledger/internal/stats"
	"github.com/slack-go/slack"
)

// LeaderboardCommandHandler answers /leaderboard. The optional text is a
// YYYY-MM month; without it the all-time board is shown.
func LeaderboardCommandHandler(engine stats.Engine, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		month := strings.TrimSpace(r.FormValue("text"))
		window := stats.Window{}
		if month != "" {
			var err error
			if window, err = stats.MonthRange(month); err != nil {
				http.Error(w, "Month must look like 2025-01.", http.StatusBadRequest)
				return
			}
		}

		entries, err := engine.GlobalLeaderboard(window)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}

		msg, err := notifier.FormatLeaderboardResponse(entries, month)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler answers /player-stats <name>.
func PlayerStatsCommandHandler(store ledger.PlayerDirectory, engine stats.Engine, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		playerName := strings.TrimSpace(r.FormValue("text"))
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)
		var msg any
		playerID, found, err := store.FindByName(playerName)
		if err == nil && found {
			var playerStats *stats.PlayerStats
			if playerStats, err = engine.PlayerStats(playerID); err == nil {
				msg, err = notifier.FormatPlayerStatsResponse(playerStats)
			}
		} else if err == nil {
			log.Warn("Could not find player", "player", playerName)
			msg, err = notifier.FormatPlayerNotFoundResponse(playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
