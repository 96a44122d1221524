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

type Server struct {
	Scoring        handlers.Scoring
	Store          ledger.Store
	Stats          stats.Engine
	Classifier     *achievement.Classifier
	Counters       metrics.CounterStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
