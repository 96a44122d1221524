package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	recordsAppended   map[string]int
	recordsDeleted    int
	sessionsCreated   int
	sessionsEnded     int
	mutationDurations map[string][]float64
	liveUpdatesSent   int
	liveUpdatesFailed int
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recordsAppended:   make(map[string]int),
		mutationDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncRecordsAppended(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsAppended[category]++
}

func (m *Mock) IncRecordsDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsDeleted++
}

func (m *Mock) IncSessionsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsCreated++
}

func (m *Mock) IncSessionsEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsEnded++
}

func (m *Mock) ObserveMutationDuration(operation string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationDurations[operation] = append(m.mutationDurations[operation], seconds)
}

func (m *Mock) IncLiveUpdatesPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveUpdatesSent++
}

func (m *Mock) IncLiveUpdatesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveUpdatesFailed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RecordsAppended returns how often IncRecordsAppended was called for category.
func (m *Mock) RecordsAppended(category string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsAppended[category]
}

// RecordsDeleted returns the number of times IncRecordsDeleted was called.
func (m *Mock) RecordsDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsDeleted
}

// SessionsCreated returns the number of times IncSessionsCreated was called.
func (m *Mock) SessionsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsCreated
}

// SessionsEnded returns the number of times IncSessionsEnded was called.
func (m *Mock) SessionsEnded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsEnded
}

// MutationDurations returns the observed durations for operation.
func (m *Mock) MutationDurations(operation string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.mutationDurations[operation]...)
}

// LiveUpdatesPublished returns the number of times IncLiveUpdatesPublished was called.
func (m *Mock) LiveUpdatesPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveUpdatesSent
}

// LiveUpdatesFailed returns the number of times IncLiveUpdatesFailed was called.
func (m *Mock) LiveUpdatesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveUpdatesFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
