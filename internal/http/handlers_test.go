package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/clock"
	"github.com/mauv0809/pool-ledger/internal/config"
	"github.com/mauv0809/pool-ledger/internal/database"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/metrics"
	"github.com/mauv0809/pool-ledger/internal/notifier"
	slacknotifier "github.com/mauv0809/pool-ledger/internal/notifier/slack"
	"github.com/mauv0809/pool-ledger/internal/pubsub"
	"github.com/mauv0809/pool-ledger/internal/scoring"
	"github.com/mauv0809/pool-ledger/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testEnv struct {
	server *Server
	notif  *notifier.Mock
	pubsub *pubsub.MockPubSubClient
}

// setupTestServer wires a server over an in-memory database with mock
// notifier and pubsub clients.
func setupTestServer(t *testing.T, slackSigningSecret string) *testEnv {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clk := clock.NewFixed(time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC))
	classifier := achievement.NewClassifier(achievement.DefaultConfig())
	store := ledger.New(db, clk, classifier)
	engine := stats.New(db)
	counters := metrics.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	notif := notifier.NewMock()
	ps := pubsub.NewMock()
	svc := scoring.New(store, engine, notif, metricsSvc, counters, ps, clk)

	// Slash commands render real Block Kit messages; without an API client the
	// notifier never posts.
	slackFormatter := slacknotifier.NewNotifierWithAPI(nil, "C123", metricsSvc)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	server := NewServer(svc, store, engine, classifier, counters, metrics.NewMetricsHandler(reg), cfg, slackFormatter, ps)
	return &testEnv{server: server, notif: notif, pubsub: ps}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req, err := http.NewRequest("POST", targetURL, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestServer(t, "")

	rr := env.do(t, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayersAPI(t *testing.T) {
	env := setupTestServer(t, "")

	rr := env.do(t, "POST", "/api/players", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	alice := decode[ledger.Player](t, rr)
	assert.Equal(t, "Alice", alice.Name)

	rr = env.do(t, "POST", "/api/players", map[string]string{"name": "Alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "POST", "/api/players", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, "PATCH", "/api/players/"+alice.ID, map[string]string{"name": "Alicia"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Alicia", decode[ledger.Player](t, rr).Name)

	rr = env.do(t, "GET", "/api/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	players := decode[[]ledger.Player](t, rr)
	require.Len(t, players, 1)
	assert.Equal(t, "Alicia", players[0].Name)

	rr = env.do(t, "GET", "/api/players/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, "GET", "/api/players/unknown/stats", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionFlow(t *testing.T) {
	env := setupTestServer(t, "")

	rr := env.do(t, "POST", "/api/sessions", map[string]string{"name": "Friday night"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	session := decode[ledger.Session](t, rr)
	base := "/api/sessions/" + session.ID

	ids := map[string]string{}
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		rr = env.do(t, "POST", base+"/players", map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		ids[name] = decode[ledger.Player](t, rr).ID
	}

	rr = env.do(t, "POST", base+"/players", map[string]string{"player_id": ids["Bob"]})
	assert.Equal(t, http.StatusConflict, rr.Code, "already a member")

	rr = env.do(t, "POST", base+"/records", map[string]any{
		"winner_id": ids["Alice"], "loser_id": ids["Bob"], "loser_id2": ids["Carol"],
		"points": 14, "category": " Big_Special ",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	record := decode[ledger.Record](t, rr)
	assert.Equal(t, achievement.CategoryBigSpecial, record.Category)

	rr = env.do(t, "POST", base+"/records", map[string]any{"winner_id": ids["Alice"], "loser_id": ids["Bob"], "points": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, "POST", base+"/records", map[string]any{"winner_id": ids["Alice"], "loser_id": ids["Bob"], "points": 2, "category": "legendary"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, "POST", base+"/records", map[string]any{"winner_id": ids["Alice"], "loser_id": "stranger", "points": 2})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, "GET", base+"/available-players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]ledger.Player](t, rr))

	rr = env.do(t, "GET", "/api/sessions/unknown/available-players", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, "GET", base+"/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[[]stats.LeaderboardEntry](t, rr)
	require.Len(t, board, 3)
	assert.Equal(t, stats.LeaderboardEntry{PlayerID: ids["Alice"], Name: "Alice", Balance: 14}, board[0])

	rr = env.do(t, "GET", base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[struct {
		ID      string                 `json:"id"`
		Players []ledger.SessionPlayer `json:"players"`
		Records []ledger.Record        `json:"records"`
	}](t, rr)
	assert.Equal(t, session.ID, detail.ID)
	assert.Len(t, detail.Players, 3)
	assert.Len(t, detail.Records, 1)

	rr = env.do(t, "POST", base+"/end", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	summary := decode[notifier.SessionSummary](t, rr)
	assert.Equal(t, 1, summary.RecordCount)
	assert.Len(t, env.pubsub.Calls(pubsub.EventSessionEnded), 1)

	rr = env.do(t, "DELETE", "/api/records/"+strconv.FormatInt(record.ID, 10), nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "ended sessions are frozen")

	rr = env.do(t, "GET", "/api/sessions?status=ended", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]ledger.Session](t, rr), 1)

	rr = env.do(t, "GET", "/api/sessions?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "DELETE", base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = env.do(t, "GET", base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteRecordHandler(t *testing.T) {
	env := setupTestServer(t, "")

	rr := env.do(t, "DELETE", "/api/records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "DELETE", "/api/records/42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboardAndAchievementsAPI(t *testing.T) {
	env := setupTestServer(t, "")
	session, err := env.server.Scoring.CreateSession("Friday night")
	require.NoError(t, err)
	alice, err := env.server.Scoring.JoinSession(session.ID, "Alice")
	require.NoError(t, err)
	bob, err := env.server.Scoring.JoinSession(session.ID, "Bob")
	require.NoError(t, err)
	_, err = env.server.Scoring.RecordScore(ledger.AppendRequest{SessionID: session.ID, WinnerID: alice.ID, LoserID: bob.ID, Points: 7}, false)
	require.NoError(t, err)

	rr := env.do(t, "GET", "/api/leaderboard?month=2025-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decode[[]stats.GlobalEntry](t, rr)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].Name)

	rr = env.do(t, "GET", "/api/leaderboard?month=2025-02", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]stats.GlobalEntry](t, rr))

	rr = env.do(t, "GET", "/api/leaderboard?start=2025-02-01&end=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "GET", "/api/achievements/small_special", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[struct {
		MinCount int                       `json:"min_count"`
		Members  []stats.AchievementMember `json:"members"`
	}](t, rr)
	assert.Equal(t, 1, detail.MinCount)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, "Alice", detail.Members[0].Name)

	rr = env.do(t, "GET", "/api/achievements/small_special_master", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[struct {
		Members []stats.AchievementMember `json:"members"`
	}](t, rr).Members)

	rr = env.do(t, "GET", "/api/achievements/legendary", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, "GET", "/api/achievements", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]stats.TierSummary](t, rr), 4)

	rr = env.do(t, "GET", "/api/months", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	months := decode[[]stats.Month](t, rr)
	require.Len(t, months, 1)
	assert.Equal(t, "2025-01", months[0].Key)

	rr = env.do(t, "GET", "/api/activity", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	activity := decode[map[string]int](t, rr)
	assert.Equal(t, 1, activity[metrics.CounterRecordsAppended])
	assert.Equal(t, 1, activity[metrics.CounterSessionsCreated])
}

func TestPushHandlers(t *testing.T) {
	env := setupTestServer(t, "")

	push := func(t *testing.T, target string, payload any) *httptest.ResponseRecorder {
		t.Helper()
		data, err := msgpack.Marshal(payload)
		require.NoError(t, err)
		return env.do(t, "POST", target, map[string]any{
			"subscription": "projects/p/subscriptions/s",
			"message":      map[string]any{"data": base64.StdEncoding.EncodeToString(data)},
		})
	}

	rr := push(t, "/pubsub/session-ended", notifier.SessionSummary{SessionID: "s1", SessionName: "Friday night", RecordCount: 3})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	summaries := env.notif.SessionSummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, "Friday night", summaries[0].SessionName)
	assert.Equal(t, 3, summaries[0].RecordCount)

	rr = push(t, "/pubsub/special-win", notifier.SpecialWin{WinnerName: "Alice", LoserNames: []string{"Bob"}, Points: 7, Category: achievement.CategorySmallSpecial})
	require.Equal(t, http.StatusOK, rr.Code)
	wins := env.notif.SpecialWins()
	require.Len(t, wins, 1)
	assert.Equal(t, []string{"Bob"}, wins[0].LoserNames)

	rr = env.do(t, "POST", "/pubsub/special-win", map[string]any{"message": map[string]any{"data": "%%%"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	env := setupTestServer(t, testSlackSigningSecret)
	_, err := env.server.Scoring.CreatePlayer("Morten Voss")
	require.NoError(t, err)

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Stats for Morten Voss")
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Unknown")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "couldn't find a player")
	})

	t.Run("handles missing player name", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLeaderboardCommandHandler(t *testing.T) {
	env := setupTestServer(t, testSlackSigningSecret)

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "All time")

	form := url.Values{}
	form.Set("text", "January")
	req = createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)
	rr = httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestServer(t, "")
	_, err := env.server.Scoring.CreateSession("Friday night")
	require.NoError(t, err)

	rr := env.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pool_ledger_sessions_created_total 1")
}
