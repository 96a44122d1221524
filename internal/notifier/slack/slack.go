package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/metrics"
	"github.com/mauv0809/pool-ledger/internal/notifier"
	"github.com/mauv0809/pool-ledger/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendSessionSummary(summary notifier.SessionSummary, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatSessionSummary(summary), dryRun)
	return err
}

func (s *Notifier) SendSpecialWin(win notifier.SpecialWin, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatSpecialWin(win), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []stats.GlobalEntry, title string, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(entries, title), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []stats.GlobalEntry, title string) (any, error) {
	return s.formatLeaderboard(entries, title), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(stat *stats.PlayerStats) (any, error) {
	return s.formatPlayerStats(stat), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

// formatSessionSummary creates the Slack message for an ended session using Block Kit.
func (s *Notifier) formatSessionSummary(summary notifier.SessionSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🎱 %s is over! 🎱", summary.SessionName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(summary.Leaderboard) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody joined this session.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, entry := range summary.Leaderboard {
		lines = append(lines, fmt.Sprintf("%d. %s %s: %+d", i+1, medal(i+1), entry.Name, entry.Balance))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	contextText := fmt.Sprintf("%d records | ended %s", summary.RecordCount, summary.EndedAt.UTC().Format("Monday 02 Jan, 15:04"))
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatSpecialWin creates the Slack message announcing a special win.
func (s *Notifier) formatSpecialWin(win notifier.SpecialWin) slack.Message {
	blocks := make([]slack.Block, 0)

	title := "✨ Special win! ✨"
	if win.Category == achievement.CategoryBigSpecial {
		title = "💥 Big special win! 💥"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	text := fmt.Sprintf("*%s* took %d points from %s", win.WinnerName, win.Points, strings.Join(win.LoserNames, " & "))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", win.SessionName, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the global leaderboard.
func (s *Notifier) formatLeaderboard(entries []stats.GlobalEntry, title string) slack.Message {
	blocks := make([]slack.Block, 0)

	if title == "" {
		title = "All time"
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 Leaderboard: %s 🏆", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No records yet. Go play some pool!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, entry := range entries {
		rank := i + 1
		playerText := fmt.Sprintf("%d. %s %s: %+d\n> Wins: %d | Losses: %d | Effective win %%: %.1f%%",
			rank,
			medal(rank),
			entry.Name,
			entry.TotalScore,
			entry.Wins,
			entry.Losses,
			entry.EffectiveWinRate,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(stat *stats.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", stat.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	rate := "n/a"
	if stat.EffectiveWinRate != nil {
		rate = fmt.Sprintf("%.1f%% (%d/%d)", *stat.EffectiveWinRate, stat.EffectiveWins, stat.EffectiveGames)
	}
	playerText := fmt.Sprintf("> *Total score*: %+d\n> *Games*: %d (%d won, %d lost)\n> *Effective win %%*: %s",
		stat.TotalScore,
		stat.TotalGames,
		stat.Wins,
		stat.Losses,
		rate,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player called *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
