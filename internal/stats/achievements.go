package stats

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pool-ledger/internal/achievement"
	"github.com/mauv0809/pool-ledger/internal/ledger"
)

// AchievementMembers lists the players with at least minCount wins tagged
// category. Higher counts rank first; on equal counts whoever got there first
// ranks above later achievers.
func (e *engine) AchievementMembers(category achievement.Category, minCount int) ([]AchievementMember, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidCategory, category)
	}
	if minCount < 1 {
		minCount = 1
	}

	rows, err := e.db.Query(`
		SELECT r.winner_id, p.name, COUNT(*), MIN(r.created_at), MAX(r.created_at)
		FROM ledger_records r
		JOIN players p ON r.winner_id = p.id
		WHERE r.category = ?
		GROUP BY r.winner_id, p.name
		HAVING COUNT(*) >= ?
		ORDER BY COUNT(*) DESC, MIN(r.created_at) ASC, MIN(r.id) ASC
	`, string(category), minCount)
	if err != nil {
		log.Error("Failed to query achievement members", "error", err, "category", category)
		return nil, storageErr("achievement members", err)
	}
	defer rows.Close()

	members := []AchievementMember{}
	for rows.Next() {
		var (
			m           AchievementMember
			first, last int64
		)
		if err := rows.Scan(&m.PlayerID, &m.Name, &m.Count, &first, &last); err != nil {
			return nil, storageErr("scan achievement member", err)
		}
		m.FirstDate = fromUnix(first)
		m.LastDate = fromUnix(last)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan achievement members", err)
	}
	return members, nil
}

// AchievementRecords returns the wins tagged category, newest first. A
// non-empty playerID limits the list to that winner.
func (e *engine) AchievementRecords(category achievement.Category, playerID string) ([]AchievementRecord, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidCategory, category)
	}

	query := `
		SELECT r.id, r.session_id, r.winner_id, r.loser_id, r.loser_id2, r.points, r.category, r.created_at, p.name, s.name
		FROM ledger_records r
		JOIN players p ON r.winner_id = p.id
		JOIN sessions s ON r.session_id = s.id
		WHERE r.category = ?`
	args := []any{string(category)}
	if playerID != "" {
		query += " AND r.winner_id = ?"
		args = append(args, playerID)
	}
	query += " ORDER BY r.id DESC"

	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("achievement records", err)
	}
	defer rows.Close()

	records := []AchievementRecord{}
	for rows.Next() {
		var (
			ar        AchievementRecord
			loserID2  sql.NullString
			cat       string
			createdAt int64
		)
		err := rows.Scan(&ar.ID, &ar.SessionID, &ar.WinnerID, &ar.LoserID, &loserID2, &ar.Points, &cat, &createdAt, &ar.WinnerName, &ar.SessionName)
		if err != nil {
			return nil, storageErr("scan achievement record", err)
		}
		ar.LoserID2 = loserID2.String
		ar.Category = achievement.Category(cat)
		ar.CreatedAt = fromUnix(createdAt)
		records = append(records, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan achievement records", err)
	}
	return records, nil
}

// AchievementSummary counts the qualifying players for each tier from a
// single grouped scan.
func (e *engine) AchievementSummary(tiers []achievement.Tier) ([]TierSummary, error) {
	rows, err := e.db.Query(`
		SELECT category, COUNT(*)
		FROM ledger_records
		WHERE category != ?
		GROUP BY category, winner_id
	`, string(achievement.CategoryOrdinary))
	if err != nil {
		return nil, storageErr("achievement summary", err)
	}
	defer rows.Close()

	counts := map[achievement.Category][]int{}
	for rows.Next() {
		var (
			cat   string
			count int
		)
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, storageErr("scan achievement summary", err)
		}
		counts[achievement.Category(cat)] = append(counts[achievement.Category(cat)], count)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan achievement summary", err)
	}

	summary := make([]TierSummary, 0, len(tiers))
	for _, tier := range tiers {
		ts := TierSummary{Tier: tier}
		for _, c := range counts[tier.Category] {
			if c >= tier.MinCount {
				ts.PlayerCount++
			}
		}
		summary = append(summary, ts)
	}
	return summary, nil
}

// SpecialWinsBatch reports, for every requested player, whether they have
// ever won a small or big special. It issues one query regardless of how many
// players are asked for.
func (e *engine) SpecialWinsBatch(playerIDs []string) (map[string]SpecialWins, error) {
	result := make(map[string]SpecialWins, len(playerIDs))
	if len(playerIDs) == 0 {
		return result, nil
	}
	for _, id := range playerIDs {
		result[id] = SpecialWins{}
	}

	args := []any{string(achievement.CategorySmallSpecial), string(achievement.CategoryBigSpecial)}
	for _, id := range playerIDs {
		args = append(args, id)
	}
	rows, err := e.db.Query(`
		SELECT winner_id, MAX(category = ?), MAX(category = ?)
		FROM ledger_records
		WHERE winner_id IN (`+placeholders(len(playerIDs))+`)
		GROUP BY winner_id
	`, args...)
	if err != nil {
		log.Error("Failed to batch query special wins", "error", err, "players", len(playerIDs))
		return nil, storageErr("special wins", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			playerID   string
			small, big bool
		)
		if err := rows.Scan(&playerID, &small, &big); err != nil {
			return nil, storageErr("scan special wins", err)
		}
		result[playerID] = SpecialWins{HasSmallSpecial: small, HasBigSpecial: big}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan special wins", err)
	}
	return result, nil
}
