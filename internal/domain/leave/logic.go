package leave

import (
	"errors"
	"time"
)

// Covers reports whether the leave's inclusive [StartDate, EndDate] range
// contains the given calendar day. Time-of-day components are ignored.
func (l Leave) Covers(day time.Time) bool {
	d := dateOnly(day)
	return !d.Before(dateOnly(l.StartDate)) && !d.After(dateOnly(l.EndDate))
}

// OverlapsRange reports whether the leave touches any day in [from, to].
func (l Leave) OverlapsRange(from, to time.Time) bool {
	return !dateOnly(l.EndDate).Before(dateOnly(from)) && !dateOnly(l.StartDate).After(dateOnly(to))
}

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(dateOnly(end).Sub(dateOnly(start)).Hours()/24) + 1, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
