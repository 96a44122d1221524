package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/notifier"
	"github.com/mauv0809/pool-ledger/internal/pubsub"
)

// SessionEndedHandler receives session-ended push deliveries and posts the
// summary to Slack.
func SessionEndedHandler(svc Scoring, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var summary notifier.SessionSummary
		if err := decodePushMessage(r, pubsubClient, &summary); err != nil {
			log.Error("Failed to decode session ended message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.NotifySessionEnded(summary, IsDryRunFromContext(r)); err != nil {
			// A non-2xx answer makes Pub/Sub redeliver.
			log.Error("Failed to send session summary", "error", err, "sessionID", summary.SessionID)
			http.Error(w, "Failed to send session summary", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// SpecialWinHandler receives special-win push deliveries and announces them.
func SpecialWinHandler(svc Scoring, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var win notifier.SpecialWin
		if err := decodePushMessage(r, pubsubClient, &win); err != nil {
			log.Error("Failed to decode special win message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.NotifySpecialWin(win, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to send special win", "error", err, "recordID", win.RecordID)
			http.Error(w, "Failed to send special win", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
