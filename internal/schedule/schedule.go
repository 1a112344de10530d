// Package schedule computes recurring drawing dates for lottery-mode
// companies. All functions are pure: they take a reference time and
// return a new midnight-normalized time.Time strictly after it.
package schedule

import (
	"time"

	"github.com/taprate/backend/internal/model"
)

// Next returns the next drawing time after from for the given frequency.
//
// For weekly drawings day is a weekday (0=Sunday..6=Saturday); landing
// on the same weekday as from always advances a full week. For monthly
// drawings day is a day of month (1-31), clamped to the length of the
// target month. An unrecognized frequency is treated as a monthly
// drawing on the 1st rather than an error, so a misconfigured company
// still gets a sane cadence.
func Next(frequency string, day int, from time.Time) time.Time {
	switch frequency {
	case model.FrequencyDaily:
		return startOfDay(from).AddDate(0, 0, 1)
	case model.FrequencyWeekly:
		// drawing_day is written by the admin CRUD without a range
		// constraint; normalize into 0-6 so an out-of-range value can
		// never yield a date in the past.
		weekday := ((day % 7) + 7) % 7
		offset := (weekday - int(from.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return startOfDay(from).AddDate(0, 0, offset)
	case model.FrequencyMonthly:
		return nextMonthly(day, from)
	default:
		return nextMonthly(1, from)
	}
}

// nextMonthly moves to the first of the next calendar month, then clamps
// the requested day of month to the month's length (day 31 in April
// becomes April 30, in February the 28th or 29th).
func nextMonthly(day int, from time.Time) time.Time {
	firstOfNext := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location()).AddDate(0, 1, 0)
	if day < 1 {
		day = 1
	}
	if last := daysInMonth(firstOfNext); day > last {
		day = last
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, from.Location())
}

// daysInMonth returns the number of days in t's month. Day zero of the
// following month is the last day of this one.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
