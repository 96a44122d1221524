package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RecordsAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_ledger_records_appended_total",
			Help: "The total number of ledger records appended, by category.",
		}, []string{"category"}),
		RecordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_records_deleted_total",
			Help: "The total number of ledger records reversed and deleted.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_sessions_created_total",
			Help: "The total number of sessions created.",
		}),
		SessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_sessions_ended_total",
			Help: "The total number of sessions ended.",
		}),
		MutationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pool_ledger_mutation_duration_seconds",
			Help:    "The duration of ledger mutations, by operation.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		LiveUpdatesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_live_updates_published_total",
			Help: "The total number of live session updates published.",
		}),
		LiveUpdatesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_live_updates_failed_total",
			Help: "The total number of live session updates that failed to publish.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_ledger_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pool_ledger_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RecordsAppended,
		s.RecordsDeleted,
		s.SessionsCreated,
		s.SessionsEnded,
		s.MutationDuration,
		s.LiveUpdatesSent,
		s.LiveUpdatesFailed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRecordsAppended(category string) {
	s.RecordsAppended.WithLabelValues(category).Inc()
}

func (s *Service) IncRecordsDeleted() {
	s.RecordsDeleted.Inc()
}

func (s *Service) IncSessionsCreated() {
	s.SessionsCreated.Inc()
}

func (s *Service) IncSessionsEnded() {
	s.SessionsEnded.Inc()
}

func (s *Service) ObserveMutationDuration(operation string, seconds float64) {
	s.MutationDuration.WithLabelValues(operation).Observe(seconds)
}

func (s *Service) IncLiveUpdatesPublished() {
	s.LiveUpdatesSent.Inc()
}

func (s *Service) IncLiveUpdatesFailed() {
	s.LiveUpdatesFailed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
