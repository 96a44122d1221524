package handlers

import (
	"fmt"
	"net/http"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/metrics"
	"github.com/mauv0809/pool-ledger/internal/stats"
)

// AchievementDetail lists who holds a category badge and the wins behind it.
type AchievementDetail struct {
	Category achievement.Category      `json:"category"`
	MinCount int                       `json:"min_count"`
	Members  []stats.AchievementMember `json:"members"`
	Records  []stats.AchievementRecord `json:"records"`
}

func SessionLeaderboardHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := engine.SessionLeaderboard(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get session leaderboard")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// windowFromQuery reads ?month=YYYY-MM or ?start=&end= (YYYY-MM-DD).
func windowFromQuery(r *http.Request) (stats.Window, error) {
	q := r.URL.Query()
	if month := q.Get("month"); month != "" {
		return stats.MonthRange(month)
	}
	return stats.ParseWindow(q.Get("start"), q.Get("end"))
}

func GlobalLeaderboardHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := windowFromQuery(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		entries, err := engine.GlobalLeaderboard(window)
		if err != nil {
			writeError(w, err, "Failed to get leaderboard")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func PlayerStatsHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerStats, err := engine.PlayerStats(r.PathValue("id"))
		if err != nil {
			writeError(w, err, "Failed to get player stats")
			return
		}
		writeJSON(w, http.StatusOK, playerStats)
	}
}

func AchievementSummaryHandler(engine stats.Engine, classifier *achievement.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := engine.AchievementSummary(classifier.Tiers())
		if err != nil {
			writeError(w, err, "Failed to get achievement summary")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// AchievementHandler accepts a category or a tier name. A tier sets the
// default minimum count; ?min= overrides it and ?player= narrows the records.
func AchievementHandler(engine stats.Engine, classifier *achievement.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("category")
		category := achievement.Category(name)
		minCount := 1
		if tier, ok := classifier.Tier(name); ok {
			category = tier.Category
			minCount = tier.MinCount
		}
		if !category.Valid() {
			writeError(w, fmt.Errorf("%w: %q", ledger.ErrInvalidCategory, name), "Unknown achievement")
			return
		}
		minCount, err := intQuery(r, "min", minCount)
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		members, err := engine.AchievementMembers(category, minCount)
		if err != nil {
			writeError(w, err, "Failed to get achievement members")
			return
		}
		records, err := engine.AchievementRecords(category, r.URL.Query().Get("player"))
		if err != nil {
			writeError(w, err, "Failed to get achievement records")
			return
		}
		writeJSON(w, http.StatusOK, AchievementDetail{
			Category: category,
			MinCount: minCount,
			Members:  members,
			Records:  records,
		})
	}
}

func MonthsHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months, err := engine.AvailableMonths()
		if err != nil {
			writeError(w, err, "Failed to get months")
			return
		}
		writeJSON(w, http.StatusOK, months)
	}
}

// ActivityHandler returns the lifetime activity counters.
func ActivityHandler(counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := counters.GetAll()
		if err != nil {
			writeError(w, err, "Failed to get activity counters")
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}
