package timesheet

import "time"

// Status mirrors the day statuses used by the portal's monthly grid.
type Status string

const (
	StatusNecompletat Status = "necompletat"
	StatusPrezent     Status = "prezent"
	StatusGarda       Status = "garda"
	StatusConcediu    Status = "concediu"
	StatusLiber       Status = "liber"
	StatusMedical     Status = "medical"
)

var ValidStatuses = []Status{
	StatusNecompletat,
	StatusPrezent,
	StatusGarda,
	StatusConcediu,
	StatusLiber,
	StatusMedical,
}

// IsActiveWork reports whether the status represents actual worked time.
// Gardă counts as active work for conflict purposes, same as prezent.
func (s Status) IsActiveWork() bool {
	return s == StatusPrezent || s == StatusGarda
}

func (s Status) Valid() bool {
	for _, candidate := range ValidStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// EntryType distinguishes an entry at the employee's own workplace from a
// visitor entry recorded at a foreign workplace.
type EntryType string

const (
	TypeHome    EntryType = "home"
	TypeVisitor EntryType = "visitor"
)

type Entry struct {
	EmployeeID  string    `json:"employeeId"`
	WorkplaceID string    `json:"workplaceId"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	HoursWorked float64   `json:"hoursWorked"`
	Status      Status    `json:"status"`
	LeaveType   string    `json:"leaveType,omitempty"`
	Type        EntryType `json:"type"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// EntryKey is the natural identity of a pontaj record. At most one entry may
// exist per key at any time; the store enforces this with a unique constraint.
type EntryKey struct {
	EmployeeID  string
	Day         string
	WorkplaceID string
	Type        EntryType
}

func (e Entry) Key() EntryKey {
	return EntryKey{
		EmployeeID:  e.EmployeeID,
		Day:         DayKey(e.Date),
		WorkplaceID: e.WorkplaceID,
		Type:        e.Type,
	}
}

// HasWorkedInterval reports whether the entry carries a clock-in/out pair
// that participates in overlap checks.
func (e Entry) HasWorkedInterval() bool {
	return e.Status.IsActiveWork() && e.StartTime != "" && e.EndTime != ""
}

// DayKey formats a date as the calendar-day key used throughout the store.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Day truncates a timestamp to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}
