package stats

import "time"

// Window is a time lower-bound keyword for filtering ledger reads.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	Window7Day  Window = "7day"
	Window30Day Window = "30day"
	WindowAll   Window = "all"
)

// ResolveWindow computes the exclusive lower bound for a window keyword.
// Calendar windows (today, week, month) are anchored to local midnight in
// loc; the result is returned in UTC for comparison against stored
// timestamps. Matches exactly at the boundary are excluded. Anything not
// recognized resolves to local midnight on 2015-01-01, which predates every
// recorded match and makes the window effectively unbounded.
func ResolveWindow(w Window, now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch w {
	case WindowToday:
		return midnight.UTC()
	case WindowWeek:
		// ISO week: back up to Monday.
		daysSinceMonday := (int(local.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -daysSinceMonday).UTC()
	case WindowMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).UTC()
	case Window7Day:
		return midnight.AddDate(0, 0, -7).UTC()
	case Window30Day:
		return midnight.AddDate(0, 0, -30).UTC()
	default:
		return time.Date(2015, 1, 1, 0, 0, 0, 0, loc).UTC()
	}
}

// WindowStart resolves a window against the engine's clock and offset.
func (e *Engine) WindowStart(w Window) time.Time {
	return ResolveWindow(w, e.now(), e.loc)
}
