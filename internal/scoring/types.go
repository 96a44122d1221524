package scoring

import (
	"time"

	"github.com/mauv0809/pool-ledger/internal/clock"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/metrics"
	"github.com/mauv0809/pool-ledger/internal/pubsub"
	"github.com/mauv0809/pool-ledger/internal/stats"
)

// Service is the entry point for every ledger mutation made by the API, the
// CLI and the seeder. It commits through the ledger first and only then fans
// out metrics, live updates and notifications.
type Service struct {
	store    ledger.Store
	stats    stats.Engine
	notifier Notifier
	metrics  metrics.Metrics
	counters metrics.CounterStore
	pubsub   pubsub.PubSubClient
	clock    clock.Clock
}

// UpdateType says what changed in a session.
type UpdateType string

const (
	UpdatePlayerJoined  UpdateType = "player_joined"
	UpdateRecordAdded   UpdateType = "record_added"
	UpdateRecordDeleted UpdateType = "record_deleted"
	UpdateSessionEnded  UpdateType = "session_ended"
)

// SessionUpdate is published after every committed mutation on a session so
// live views can redraw without polling.
type SessionUpdate struct {
	Type        UpdateType               `json:"type" msgpack:"type"`
	SessionID   string                   `json:"session_id" msgpack:"session_id"`
	Leaderboard []stats.LeaderboardEntry `json:"leaderboard" msgpack:"leaderboard"`
	Record      *ledger.Record           `json:"record,omitempty" msgpack:"record,omitempty"`
	At          time.Time                `json:"at" msgpack:"at"`
}
