package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRecordsAppended(category string)
	IncRecordsDeleted()
	IncSessionsCreated()
	IncSessionsEnded()
	ObserveMutationDuration(operation string, seconds float64)
	IncLiveUpdatesPublished()
	IncLiveUpdatesFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore keeps lifetime activity counters in the database so they
// survive restarts, unlike the Prometheus counters.
type CounterStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
