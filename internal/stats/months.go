package stats

import (
	"strings"
	"time"
)

// AvailableMonths returns the year-months that have sessions, newest first,
// bucketed by session creation time (UTC).
func (e *engine) AvailableMonths() ([]Month, error) {
	rows, err := e.db.Query(`
		SELECT strftime('%Y-%m', created_at, 'unixepoch') AS month, COUNT(*)
		FROM sessions
		GROUP BY month
		ORDER BY month DESC
	`)
	if err != nil {
		return nil, storageErr("available months", err)
	}
	defer rows.Close()

	months := []Month{}
	for rows.Next() {
		var m Month
		if err := rows.Scan(&m.Key, &m.SessionCount); err != nil {
			return nil, storageErr("scan month", err)
		}
		t, err := time.Parse("2006-01", m.Key)
		if err != nil {
			return nil, storageErr("parse month", err)
		}
		m.Year = t.Year()
		m.Month = int(t.Month())
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan months", err)
	}
	return months, nil
}

func fromUnix(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
