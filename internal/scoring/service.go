package scoring

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/clock"
	"github.com/mauv0809/pool-ledger/internal/ledger"
	"github.com/mauv0809/pool-ledger/internal/metrics"
	"github.com/mauv0809/pool-ledger/internal/notifier"
	"github.com/mauv0809/pool-ledger/internal/pubsub"
	"github.com/mauv0809/pool-ledger/internal/stats"
)

// New creates a new Service.
func New(store ledger.Store, engine stats.Engine, notifier Notifier, metrics metrics.Metrics, counters metrics.CounterStore, pubsub pubsub.PubSubClient, clk clock.Clock) *Service {
	return &Service{
		store:    store,
		stats:    engine,
		notifier: notifier,
		metrics:  metrics,
		counters: counters,
		pubsub:   pubsub,
		clock:    clk,
	}
}

// CreatePlayer registers a new player.
func (s *Service) CreatePlayer(name string) (*ledger.Player, error) {
	defer s.observe("create_player", s.clock.Now())
	id, err := s.store.CreatePlayer(name)
	if err != nil {
		return nil, err
	}
	return s.store.GetPlayer(id)
}

// RenamePlayer changes a player's display name. History follows the id.
func (s *Service) RenamePlayer(playerID, name string) (*ledger.Player, error) {
	defer s.observe("rename_player", s.clock.Now())
	if err := s.store.Rename(playerID, name); err != nil {
		return nil, err
	}
	return s.store.GetPlayer(playerID)
}

// CreateSession starts a new active session.
func (s *Service) CreateSession(name string) (*ledger.Session, error) {
	defer s.observe("create_session", s.clock.Now())
	id, err := s.store.CreateSession(name)
	if err != nil {
		return nil, err
	}
	s.metrics.IncSessionsCreated()
	s.counters.Increment(metrics.CounterSessionsCreated)
	return s.store.GetSession(id)
}

// JoinSession adds the player called name to a session, registering the
// player first when the name is new.
func (s *Service) JoinSession(sessionID, name string) (*ledger.Player, error) {
	defer s.observe("join_session", s.clock.Now())
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Active {
		return nil, ledger.ErrSessionEnded
	}
	playerID, err := s.store.GetOrCreate(name)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddPlayerToSession(sessionID, playerID); err != nil {
		return nil, err
	}
	s.publishUpdate(sessionID, UpdatePlayerJoined, nil)
	return s.store.GetPlayer(playerID)
}

// AddPlayer adds an existing player to a session.
func (s *Service) AddPlayer(sessionID, playerID string) error {
	defer s.observe("add_player", s.clock.Now())
	if err := s.store.AddPlayerToSession(sessionID, playerID); err != nil {
		return err
	}
	s.publishUpdate(sessionID, UpdatePlayerJoined, nil)
	return nil
}

// RecordScore appends a scoring event. Special wins are announced.
func (s *Service) RecordScore(req ledger.AppendRequest, dryRun bool) (*ledger.Record, error) {
	defer s.observe("record_score", s.clock.Now())
	record, err := s.store.AppendRecord(req)
	if err != nil {
		log.Warn("Rejected scoring event", "error", err, "sessionID", req.SessionID, "points", req.Points)
		return nil, err
	}
	s.metrics.IncRecordsAppended(string(record.Category))
	s.counters.Increment(metrics.CounterRecordsAppended)
	s.publishUpdate(record.SessionID, UpdateRecordAdded, record)

	if record.Category.Special() {
		s.announceSpecialWin(record, dryRun)
	}
	return record, nil
}

// UndoRecord reverses a record and removes it from the ledger.
func (s *Service) UndoRecord(recordID int64) (*ledger.Record, error) {
	defer s.observe("undo_record", s.clock.Now())
	record, err := s.store.DeleteRecord(recordID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncRecordsDeleted()
	s.counters.Increment(metrics.CounterRecordsDeleted)
	s.publishUpdate(record.SessionID, UpdateRecordDeleted, record)
	return record, nil
}

// EndSession freezes a session and sends its final standings to Slack.
func (s *Service) EndSession(sessionID string, dryRun bool) (*notifier.SessionSummary, error) {
	defer s.observe("end_session", s.clock.Now())
	if err := s.store.EndSession(sessionID); err != nil {
		return nil, err
	}
	s.metrics.IncSessionsEnded()
	s.counters.Increment(metrics.CounterSessionsEnded)
	s.publishUpdate(sessionID, UpdateSessionEnded, nil)

	summary, err := s.sessionSummary(sessionID)
	if err != nil {
		log.Error("Failed to build session summary", "error", err, "sessionID", sessionID)
		return nil, err
	}

	if s.pubsub.Enabled() && !dryRun {
		if err := s.pubsub.SendMessage(pubsub.EventSessionEnded, summary); err != nil {
			log.Error("Failed to publish session ended", "error", err, "sessionID", sessionID)
		}
		return summary, nil
	}
	if err := s.NotifySessionEnded(*summary, dryRun); err != nil {
		log.Error("Failed to send session summary", "error", err, "sessionID", sessionID)
	}
	return summary, nil
}

// DeleteSession removes a session with its memberships and records.
func (s *Service) DeleteSession(sessionID string) error {
	defer s.observe("delete_session", s.clock.Now())
	return s.store.DeleteSession(sessionID)
}

// NotifySessionEnded posts a session summary. It is called directly when
// Pub/Sub is disabled and from the push handler otherwise.
func (s *Service) NotifySessionEnded(summary notifier.SessionSummary, dryRun bool) error {
	log.Info("Sending session summary", "sessionID", summary.SessionID, "records", summary.RecordCount)
	return s.notifier.SendSessionSummary(summary, dryRun)
}

// NotifySpecialWin posts a special-win announcement.
func (s *Service) NotifySpecialWin(win notifier.SpecialWin, dryRun bool) error {
	log.Info("Announcing special win", "recordID", win.RecordID, "winner", win.WinnerName, "category", win.Category)
	return s.notifier.SendSpecialWin(win, dryRun)
}

func (s *Service) announceSpecialWin(record *ledger.Record, dryRun bool) {
	win, err := s.specialWin(record)
	if err != nil {
		log.Error("Failed to build special win", "error", err, "recordID", record.ID)
		return
	}
	if s.pubsub.Enabled() && !dryRun {
		if err := s.pubsub.SendMessage(pubsub.EventSpecialWin, win); err != nil {
			log.Error("Failed to publish special win", "error", err, "recordID", record.ID)
		}
		return
	}
	if err := s.NotifySpecialWin(*win, dryRun); err != nil {
		log.Error("Failed to send special win", "error", err, "recordID", record.ID)
	}
}

func (s *Service) specialWin(record *ledger.Record) (*notifier.SpecialWin, error) {
	session, err := s.store.GetSession(record.SessionID)
	if err != nil {
		return nil, err
	}
	winner, err := s.store.GetPlayer(record.WinnerID)
	if err != nil {
		return nil, err
	}
	win := &notifier.SpecialWin{
		SessionID:   session.ID,
		SessionName: session.Name,
		RecordID:    record.ID,
		WinnerName:  winner.Name,
		Points:      record.Points,
		Category:    record.Category,
	}
	for _, id := range record.Losers() {
		loser, err := s.store.GetPlayer(id)
		if err != nil {
			return nil, err
		}
		win.LoserNames = append(win.LoserNames, loser.Name)
	}
	return win, nil
}

func (s *Service) sessionSummary(sessionID string) (*notifier.SessionSummary, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	leaderboard, err := s.stats.SessionLeaderboard(sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(sessionID)
	if err != nil {
		return nil, err
	}
	summary := &notifier.SessionSummary{
		SessionID:   session.ID,
		SessionName: session.Name,
		RecordCount: len(records),
		Leaderboard: leaderboard,
	}
	if session.EndedAt != nil {
		summary.EndedAt = *session.EndedAt
	}
	return summary, nil
}

// publishUpdate sends the session's current standings. Failures are counted
// and logged; the mutation has already committed.
func (s *Service) publishUpdate(sessionID string, kind UpdateType, record *ledger.Record) {
	if !s.pubsub.Enabled() {
		return
	}
	leaderboard, err := s.stats.SessionLeaderboard(sessionID)
	if err != nil {
		s.metrics.IncLiveUpdatesFailed()
		log.Error("Failed to load leaderboard for live update", "error", err, "sessionID", sessionID)
		return
	}
	update := SessionUpdate{
		Type:        kind,
		SessionID:   sessionID,
		Leaderboard: leaderboard,
		Record:      record,
		At:          s.clock.Now(),
	}
	if err := s.pubsub.SendMessage(pubsub.EventSessionUpdated, update); err != nil {
		s.metrics.IncLiveUpdatesFailed()
		log.Error("Failed to publish live update", "error", err, "sessionID", sessionID, "type", kind)
		return
	}
	s.metrics.IncLiveUpdatesPublished()
	log.Debug("Published live update", "sessionID", sessionID, "type", kind)
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.ObserveMutationDuration(operation, s.clock.Now().Sub(start).Seconds())
}
