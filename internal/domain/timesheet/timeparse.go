package timesheet

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// NormalizeTime returns raw as a canonical "HH:MM" string, clamping the hour
// to [0,23] and the minute to [0,59]. Malformed input falls back to the
// provided default; a malformed fallback yields "00:00". The function is
// total and idempotent.
func NormalizeTime(raw, fallback string) string {
	if h, m, ok := parseClock(raw); ok {
		return fmt.Sprintf("%02d:%02d", clamp(h, 0, 23), clamp(m, 0, 59))
	}
	if h, m, ok := parseClock(fallback); ok {
		return fmt.Sprintf("%02d:%02d", clamp(h, 0, 23), clamp(m, 0, 59))
	}
	return "00:00"
}

// CalcDurationHours returns the worked duration between two times of day.
// When end <= start the shift is treated as crossing midnight and 24 hours
// are added before subtracting, so the result is never negative. A pair with
// start == end therefore counts as a full 24-hour shift; an entry with no
// worked time is expressed through a non-work status, not a zero interval.
func CalcDurationHours(start, end string) float64 {
	s := clockMinutes(start)
	e := clockMinutes(end)
	if e <= s {
		e += minutesPerDay
	}
	return float64(e-s) / 60.0
}

// Overlaps reports whether two same-day worked intervals intersect. Each
// interval is taken in overnight form: an end at or before its start wraps
// past midnight.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as := clockMinutes(aStart)
	ae := clockMinutes(aEnd)
	if ae <= as {
		ae += minutesPerDay
	}
	bs := clockMinutes(bStart)
	be := clockMinutes(bEnd)
	if be <= bs {
		be += minutesPerDay
	}
	return as < be && bs < ae
}

func clockMinutes(value string) int {
	h, m, ok := parseClock(value)
	if !ok {
		return 0
	}
	return clamp(h, 0, 23)*60 + clamp(m, 0, 59)
}

func parseClock(value string) (int, int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(value, ":", 2)
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	minute := 0
	if len(parts) == 2 {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, false
		}
	}
	return hour, minute, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
