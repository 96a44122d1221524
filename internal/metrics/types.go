package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RecordsAppended    *prometheus.CounterVec
	RecordsDeleted     prometheus.Counter
	SessionsCreated    prometheus.Counter
	SessionsEnded      prometheus.Counter
	MutationDuration   *prometheus.HistogramVec
	LiveUpdatesSent    prometheus.Counter
	LiveUpdatesFailed  prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Keys used in the persistent activity counters.
const (
	CounterRecordsAppended = "records_appended"
	CounterRecordsDeleted  = "records_deleted"
	CounterSessionsCreated = "sessions_created"
	CounterSessionsEnded   = "sessions_ended"
)
