package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseMonth accepts YYYY-MM and returns the first and last day of the month.
func ParseMonth(value string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}
