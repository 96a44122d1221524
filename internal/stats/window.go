package stats

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Window restricts aggregation to records created between two calendar days
// (UTC), both inclusive. A zero bound is open.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow builds a Window from optional "YYYY-MM-DD" strings.
func ParseWindow(start, end string) (Window, error) {
	var (
		w   Window
		err error
	)
	if start != "" {
		if w.Start, err = time.Parse(dateLayout, start); err != nil {
			return Window{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
	}
	if end != "" {
		if w.End, err = time.Parse(dateLayout, end); err != nil {
			return Window{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
	}
	if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return w, nil
}

// MonthRange returns the Window covering a "YYYY-MM" month.
func MonthRange(key string) (Window, error) {
	first, err := time.Parse("2006-01", key)
	if err != nil {
		return Window{}, fmt.Errorf("invalid month %q: %w", key, err)
	}
	return Window{Start: first, End: first.AddDate(0, 1, -1)}, nil
}

// IsZero reports whether the window is unbounded.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// where returns a SQL condition on column (unix seconds) and its arguments.
func (w Window) where(column string) (string, []any) {
	cond := "1 = 1"
	var args []any
	if !w.Start.IsZero() {
		cond += " AND " + column + " >= ?"
		args = append(args, startOfDay(w.Start).Unix())
	}
	if !w.End.IsZero() {
		cond += " AND " + column + " < ?"
		args = append(args, startOfDay(w.End).AddDate(0, 0, 1).Unix())
	}
	return cond, args
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
