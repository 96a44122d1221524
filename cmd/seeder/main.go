package main

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/clock"
	"github.com/mauv0809/pool-ledger/internal/config"
	"github.com/mauv0809/pool-ledger/internal/database"
	"github.com/mauv0809/pool-ledger/internal/ledger"
)

const (
	numSessions       = 40
	recordsPerSession = 25
)

var seedPlayers = []string{"Seeder Alice", "Seeder Bob", "Seeder Carol", "Seeder Dave", "Seeder Erin"}

// Seeds a database with demo sessions spread over the last months. Records are
// written through the ledger so balances and categories match real play.
func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	// Sessions are backdated by driving the store's clock.
	clk := clock.NewFixed(time.Now().UTC().AddDate(0, 0, -numSessions*7))
	store := ledger.New(db, clk, achievement.NewClassifier(cfg.Achievements))

	playerIDs := make([]string, len(seedPlayers))
	for i, name := range seedPlayers {
		if playerIDs[i], err = store.GetOrCreate(name); err != nil {
			log.Fatalf("Failed to create player %s: %s", name, err)
		}
	}
	log.Info("Ensured seed players exist.", "count", len(playerIDs))

	startTime := time.Now()
	records := 0
	for i := 0; i < numSessions; i++ {
		sessionID, err := store.CreateSession("Seeded night " + clk.Now().Format("2006-01-02"))
		if err != nil {
			log.Fatalf("Failed to create session: %s", err)
		}
		members := pickMembers(playerIDs)
		for _, id := range members {
			if err := store.AddPlayerToSession(sessionID, id); err != nil {
				log.Fatalf("Failed to add player to session: %s", err)
			}
		}

		for j := 0; j < recordsPerSession; j++ {
			clk.Advance(5 * time.Minute)
			if _, err := store.AppendRecord(randomRecord(sessionID, members, cfg.Achievements)); err != nil {
				log.Fatalf("Failed to append record: %s", err)
			}
			records++
		}

		if err := store.EndSession(sessionID); err != nil {
			log.Fatalf("Failed to end session: %s", err)
		}
		clk.Advance(7 * 24 * time.Hour)
		log.Info("Seeded session", "completed", i+1, "total", numSessions)
	}

	log.Info("Successfully seeded demo data.", "sessions", numSessions, "records", records, "duration", time.Since(startTime))
}

func pickMembers(playerIDs []string) []string {
	shuffled := append([]string(nil), playerIDs...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:3+rand.Intn(len(shuffled)-2)]
}

// randomRecord mostly produces small single-loser wins, with the occasional
// special and a split big special now and then.
func randomRecord(sessionID string, members []string, thresholds achievement.Config) ledger.AppendRequest {
	order := rand.Perm(len(members))
	req := ledger.AppendRequest{
		SessionID: sessionID,
		WinnerID:  members[order[0]],
		LoserID:   members[order[1]],
		Points:    1 + rand.Intn(6),
	}
	switch roll := rand.Intn(20); {
	case roll == 0 && len(thresholds.BigSpecialSplitTotals) > 0:
		req.LoserID2 = members[order[2]]
		req.Points = thresholds.BigSpecialSplitTotals[rand.Intn(len(thresholds.BigSpecialSplitTotals))]
		req.Category = achievement.CategoryBigSpecial
	case roll < 3:
		req.Points = thresholds.SmallSpecialMinPoints + rand.Intn(3)
	}
	return req
}
