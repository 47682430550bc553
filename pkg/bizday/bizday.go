// Package bizday does Monday–Friday calendar arithmetic. Holidays are not modeled.
// Every function works on UTC calendar dates regardless of the input location.
package bizday

import "time"

// IsBusinessDay reports whether t falls on Monday–Friday (UTC).
func IsBusinessDay(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CountBusinessDays counts the business days in the calendar range (start, end]:
// the start date itself is not counted, the end date is. A Monday start viewed on
// Thursday yields 3. An end on or before start yields 0, so a same-day range is 0
// even on a weekday; callers wanting a closed [start, end] count add
// IsBusinessDay(start).
func CountBusinessDays(start, end time.Time) int {
	cur := dateOf(start).AddDate(0, 0, 1)
	last := dateOf(end)

	n := 0
	for !cur.After(last) {
		if IsBusinessDay(cur) {
			n++
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return n
}

// AddBusinessDays walks forward one calendar day at a time until n business days
// have been consumed; weekend days are skipped for free. The time of day of start
// is kept and the result is always UTC. n <= 0 returns start in UTC.
func AddBusinessDays(start time.Time, n int) time.Time {
	cur := start.UTC()
	for added := 0; added < n; {
		cur = cur.AddDate(0, 0, 1)
		if IsBusinessDay(cur) {
			added++
		}
	}
	return cur
}
