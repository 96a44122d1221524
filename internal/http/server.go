package http

import (
	"net/http"

	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/config"
	"github.com/mauv0809/pool-ledger/internal/http/handlers"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/metrics"
	"github.com/mauv0809/pool-ledger/internal/notifier"
	"github.com/mauv0809/pool-ledger/internal/pubsub"
	"github.com/mauv0809/pool-ledger/internal/stats"
)

func NewServer(scoring handlers.Scoring, store ledger.Store, engine stats.Engine, classifier *achievement.Classifier, counters metrics.CounterStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Scoring:        scoring,
		Store:          store,
		Stats:          engine,
		Classifier:     classifier,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", Chain(handlers.ListPlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /api/players", Chain(handlers.CreatePlayerHandler(s.Scoring), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}", Chain(handlers.GetPlayerHandler(s.Store), paramsMiddleware))
	s.Router.Handle("PATCH /api/players/{id}", Chain(handlers.RenamePlayerHandler(s.Scoring), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}/stats", Chain(handlers.PlayerStatsHandler(s.Stats), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}/records", Chain(handlers.PlayerRecordsHandler(s.Store), paramsMiddleware))

	s.Router.Handle("GET /api/sessions", Chain(handlers.ListSessionsHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /api/sessions", Chain(handlers.CreateSessionHandler(s.Scoring), paramsMiddleware))
	s.Router.Handle("GET /api/sessions/{id}", Chain(handlers.GetSessionHandler(s.Store), paramsMiddleware))
	s.Router.Handle("DELETE /api/sessions/{id}", Chain(handlers.DeleteSessionHandler(s.Scoring), paramsMiddleware))
	s.Router.Handle("GET /api/sessions/{id}/players", Chain(handlers.SessionPlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /api/sessions/{id}/players", Chain(handlers.JoinSessionHandler(s.Scoring, s.Store), paramsMiddleware))
	s.Router.Handle("GET /api/sessions/{id}/available-players", Chain(handlers.AvailablePlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /api/sessions/{id}/leaderboard", Chain(handlers.SessionLeaderboardHandler(s.Stats), paramsMiddleware))
	s.Router.Handle("POST /api/sessions/{id}/end", Chain(handlers.EndSessionHandler(s.Scoring), paramsMiddleware))
	s.Router.Handle("GET /api/sessions/{id}/records", Chain(handlers.ListRecordsHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /api/sessions/{id}/records", Chain(handlers.AppendRecordHandler(s.Scoring), paramsMiddleware))
	s.Router.Handle("DELETE /api/records/{id}", Chain(handlers.DeleteRecordHandler(s.Scoring), paramsMiddleware))

	s.Router.Handle("GET /api/leaderboard", Chain(handlers.GlobalLeaderboardHandler(s.Stats), paramsMiddleware))
	s.Router.Handle("GET /api/achievements", Chain(handlers.AchievementSummaryHandler(s.Stats, s.Classifier), paramsMiddleware))
	s.Router.Handle("GET /api/achievements/{category}", Chain(handlers.AchievementHandler(s.Stats, s.Classifier), paramsMiddleware))
	s.Router.Handle("GET /api/months", Chain(handlers.MonthsHandler(s.Stats), paramsMiddleware))
	s.Router.Handle("GET /api/activity", Chain(handlers.ActivityHandler(s.Counters), paramsMiddleware))

	s.Router.Handle("POST /pubsub/session-ended", Chain(handlers.SessionEndedHandler(s.Scoring, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /pubsub/special-win", Chain(handlers.SpecialWinHandler(s.Scoring, s.pubsub), paramsMiddleware))

	verifySlack := slackSignatureMiddleware(s.Cfg.Slack.SigningSecret)
	s.Router.Handle("/slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Stats, s.Notifier), paramsMiddleware, verifySlack))
	s.Router.Handle("/slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(s.Store, s.Stats, s.Notifier), paramsMiddleware, verifySlack))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
