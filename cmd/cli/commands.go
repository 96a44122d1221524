package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	sessionStatus string
	sessionLimit  int
	joinByID      bool
	loserID2      string
	category      string
	month         string
	startDate     string
	endDate       string
	minCount      int
	playerFilter  string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(monthsCmd)
	rootCmd.AddCommand(activityCmd)

	playersCmd.AddCommand(playersListCmd, playersAddCmd, playersRenameCmd, playersStatsCmd, playersRecordsCmd)

	sessionsListCmd.Flags().StringVar(&sessionStatus, "status", "all", "active, ended or all")
	sessionsListCmd.Flags().IntVar(&sessionLimit, "limit", 0, "Maximum number of ended sessions")
	sessionsJoinCmd.Flags().BoolVar(&joinByID, "id", false, "Treat the argument as a player id instead of a name")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsNewCmd, sessionsShowCmd, sessionsJoinCmd, sessionsEndCmd, sessionsDeleteCmd)

	recordAddCmd.Flags().StringVar(&loserID2, "split", "", "Second loser id; the points are split between both losers")
	recordAddCmd.Flags().StringVar(&category, "category", "", "ordinary, small_special or big_special (classified automatically when empty)")
	recordCmd.AddCommand(recordAddCmd, recordUndoCmd)

	leaderboardCmd.Flags().StringVar(&month, "month", "", "Restrict to a month (YYYY-MM)")
	leaderboardCmd.Flags().StringVar(&startDate, "start", "", "First day to include (YYYY-MM-DD)")
	leaderboardCmd.Flags().StringVar(&endDate, "end", "", "Last day to include (YYYY-MM-DD)")

	achievementsCmd.Flags().IntVar(&minCount, "min", 0, "Minimum number of wins")
	achievementsCmd.Flags().StringVar(&playerFilter, "player", "", "Only list records won by this player id")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Manage players",
}

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players")
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a player",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/api/players", map[string]string{"name": strings.Join(args, " ")})
	},
}

var playersRenameCmd = &cobra.Command{
	Use:   "rename <player-id> <new name>",
	Short: "Rename a player, keeping their history",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("PATCH", "/api/players/"+url.PathEscape(args[0]), map[string]string{"name": strings.Join(args[1:], " ")})
	},
}

var playersStatsCmd = &cobra.Command{
	Use:   "stats <player-id>",
	Short: "Show lifetime statistics for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players/" + url.PathEscape(args[0]) + "/stats")
	},
}

var playersRecordsCmd = &cobra.Command{
	Use:   "records <player-id>",
	Short: "List every record a player took part in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players/" + url.PathEscape(args[0]) + "/records")
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("status", sessionStatus)
		if sessionLimit > 0 {
			q.Set("limit", strconv.Itoa(sessionLimit))
		}
		return performGetRequest("/api/sessions?" + q.Encode())
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Start a session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/api/sessions", map[string]string{"name": strings.Join(args, " ")})
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session with its standings and records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/sessions/" + url.PathEscape(args[0]))
	},
}

var sessionsJoinCmd = &cobra.Command{
	Use:   "join <session-id> <player name>",
	Short: "Add a player to a session, registering new names",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": strings.Join(args[1:], " ")}
		if joinByID {
			body = map[string]string{"player_id": args[1]}
		}
		return performRequest("POST", "/api/sessions/"+url.PathEscape(args[0])+"/players", body)
	},
}

var sessionsEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "End a session and post the final standings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/api/sessions/"+url.PathEscape(args[0])+"/end", nil)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session with all its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("DELETE", "/api/sessions/"+url.PathEscape(args[0]), nil)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record or undo scoring events",
}

var recordAddCmd = &cobra.Command{
	Use:   "add <session-id> <winner-id> <loser-id> <points>",
	Short: "Record that the winner took points from the loser",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("points must be a number: %w", err)
		}
		return performRequest("POST", "/api/sessions/"+url.PathEscape(args[0])+"/records", map[string]any{
			"winner_id": args[1],
			"loser_id":  args[2],
			"loser_id2": loserID2,
			"points":    points,
			"category":  category,
		})
	},
}

var recordUndoCmd = &cobra.Command{
	Use:   "undo <record-id>",
	Short: "Delete a record and reverse its transfer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("DELETE", "/api/records/"+url.PathEscape(args[0]), nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [session-id]",
	Short: "Show the global leaderboard, or a session's standings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performGetRequest("/api/sessions/" + url.PathEscape(args[0]) + "/leaderboard")
		}
		q := url.Values{}
		if month != "" {
			q.Set("month", month)
		}
		if startDate != "" {
			q.Set("start", startDate)
		}
		if endDate != "" {
			q.Set("end", endDate)
		}
		return performGetRequest("/api/leaderboard?" + q.Encode())
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements [category-or-tier]",
	Short: "Show achievement tiers, or the holders of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return performGetRequest("/api/achievements")
		}
		q := url.Values{}
		if minCount > 0 {
			q.Set("min", strconv.Itoa(minCount))
		}
		if playerFilter != "" {
			q.Set("player", playerFilter)
		}
		return performGetRequest("/api/achievements/" + url.PathEscape(args[0]) + "?" + q.Encode())
	},
}

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months that have sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/months")
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show lifetime activity counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/activity")
	},
}
