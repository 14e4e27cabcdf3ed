package schedule

import "time"

// Shift is a planned block of hours in the monthly schedule. Planned shifts
// are advisory: a pontaj records the actually worked time, and only pontaj
// entries participate in conflict checks.
type Shift struct {
	EmployeeID  string    `json:"employeeId"`
	WorkplaceID string    `json:"workplaceId"`
	Day         time.Time `json:"day"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
