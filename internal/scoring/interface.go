package scoring

import "github.com/mauv0809/pool-ledger/internal/notifier"

// Notifier defines the notification operations required by the service.
type Notifier interface {
	SendSessionSummary(summary notifier.SessionSummary, dryRun bool) error
	SendSpecialWin(win notifier.SpecialWin, dryRun bool) error
}
