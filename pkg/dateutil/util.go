package dateutil

import "time"

// BeginningOfDay truncates t to midnight in its own location.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// IsToday reports whether t falls in the half-open interval
// [today, tomorrow) relative to now. Both bounds use the server location
// of now.
func IsToday(t, now time.Time) bool {
	today := BeginningOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	t = t.In(now.Location())
	return !t.Before(today) && t.Before(tomorrow)
}
