package mastery

import "time"

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// UpdateStreak returns the streak after practicing on today.
//
// A nil last date starts a new streak. Practicing the day after the last
// practice extends it, practicing again on the same day leaves it unchanged,
// and any longer gap restarts it at 1. Dates are compared in today's location.
func UpdateStreak(current int, last *time.Time, today time.Time) int {
	if last == nil {
		return 1
	}
	switch {
	case SameDay(*last, today):
		if current < 1 {
			return 1
		}
		return current
	case SameDay(*last, today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// SameDay reports whether a and b fall on the same calendar date in b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}
