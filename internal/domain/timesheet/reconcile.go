package timesheet

import (
	"sort"
	"time"

	"pontaj/internal/domain/leave"
	"pontaj/internal/domain/roster"
)

// DayCellKind classifies what the monthly grid shows for one employee/day.
type DayCellKind string

const (
	CellWorked DayCellKind = "worked"
	CellLeave  DayCellKind = "leave"
)

type DayCell struct {
	Kind      DayCellKind `json:"kind"`
	Hours     float64     `json:"hours,omitempty"`
	Status    Status      `json:"status,omitempty"`
	LeaveType string      `json:"leaveType,omitempty"`
	Visitor   bool        `json:"visitor,omitempty"`
}

// Snapshot is the reconciled view of one workplace over a date range. It is
// derived purely from its inputs; nothing here mutates the store.
type Snapshot struct {
	WorkplaceID string                        `json:"workplaceId"`
	From        time.Time                     `json:"from"`
	To          time.Time                     `json:"to"`
	Entries     []Entry                       `json:"entries"`
	Visitors    []roster.Employee             `json:"visitors"`
	Totals      map[string]float64            `json:"totals"`
	Days        map[string]map[string]DayCell `json:"days"`
}

// Reconcile builds the workplace view: deduplicated entries, the visitor
// roster, per-day cells and monthly aggregate hours per employee.
func Reconcile(workplaceID string, from, to time.Time, entries []Entry, employees []roster.Employee, leaves []leave.Leave) Snapshot {
	deduped := Dedupe(entries)
	return Snapshot{
		WorkplaceID: workplaceID,
		From:        Day(from),
		To:          Day(to),
		Entries:     deduped,
		Visitors:    VisitorRoster(workplaceID, deduped, employees),
		Totals:      MonthlyTotals(deduped),
		Days:        BuildDays(from, to, deduped, leaves),
	}
}

// Dedupe drops repeated writes for the same composite key, keeping the first
// occurrence and the original order. It defends aggregation against upstream
// duplicates; the store constraint makes duplicates impossible at rest.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[EntryKey]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := e.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// VisitorRoster returns the employees appearing at the workplace as visitors:
// a visitor-typed entry targets it while their home workplace differs.
func VisitorRoster(workplaceID string, entries []Entry, employees []roster.Employee) []roster.Employee {
	byID := make(map[string]roster.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	seen := make(map[string]struct{})
	var out []roster.Employee
	for _, e := range entries {
		if e.Type != TypeVisitor || e.WorkplaceID != workplaceID {
			continue
		}
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		emp, ok := byID[e.EmployeeID]
		if !ok || emp.HomeWorkplaceID == workplaceID {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MonthlyTotals sums worked hours per employee over the deduplicated set,
// excluding absence entries.
func MonthlyTotals(entries []Entry) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range entries {
		if e.LeaveType != "" {
			continue
		}
		totals[e.EmployeeID] += e.HoursWorked
	}
	return totals
}

// BuildDays derives one cell per employee/day: worked hours (visitor-flagged
// when sourced from a visitor entry), a leave marker, or nothing. Approved
// leaves produce markers even on days with no timesheet entry.
func BuildDays(from, to time.Time, entries []Entry, leaves []leave.Leave) map[string]map[string]DayCell {
	days := make(map[string]map[string]DayCell)
	set := func(employeeID, day string, cell DayCell) {
		if _, ok := days[employeeID]; !ok {
			days[employeeID] = make(map[string]DayCell)
		}
		days[employeeID][day] = cell
	}

	for _, e := range entries {
		day := DayKey(e.Date)
		switch {
		case e.Status.IsActiveWork():
			set(e.EmployeeID, day, DayCell{
				Kind:    CellWorked,
				Hours:   e.HoursWorked,
				Status:  e.Status,
				Visitor: e.Type == TypeVisitor,
			})
		case e.Status == StatusNecompletat:
			// Not filled in yet: the grid shows nothing.
		default:
			set(e.EmployeeID, day, DayCell{
				Kind:      CellLeave,
				Status:    e.Status,
				LeaveType: e.LeaveType,
			})
		}
	}

	for _, l := range leaves {
		if l.Status != leave.StatusApproved {
			continue
		}
		for day := Day(from); !day.After(Day(to)); day = day.AddDate(0, 0, 1) {
			if !l.Covers(day) {
				continue
			}
			key := DayKey(day)
			if _, ok := days[l.EmployeeID][key]; ok {
				continue
			}
			set(l.EmployeeID, key, DayCell{
				Kind:      CellLeave,
				Status:    StatusConcediu,
				LeaveType: string(l.Type),
			})
		}
	}

	return days
}
