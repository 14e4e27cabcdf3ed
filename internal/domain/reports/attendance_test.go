package reports

import (
	"bytes"
	"testing"
	"time"

	"pontaj/internal/domain/roster"
	"pontaj/internal/domain/timesheet"
)

func TestAttendanceSheet(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	snapshot := &timesheet.Snapshot{
		WorkplaceID: "wp-1",
		From:        from,
		To:          to,
		Totals:      map[string]float64{"emp-1": 160},
		Days: map[string]map[string]timesheet.DayCell{
			"emp-1": {
				"2025-03-03": {Kind: timesheet.CellWorked, Hours: 8},
				"2025-03-04": {Kind: timesheet.CellLeave, LeaveType: "odihna"},
			},
		},
	}
	employees := []roster.Employee{{ID: "emp-1", Name: "Ana", HomeWorkplaceID: "wp-1", MonthlyTargetHours: 168}}

	pdf, err := AttendanceSheet("Farmacia Centrala", snapshot, employees)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}

func TestCellText(t *testing.T) {
	cases := []struct {
		cell timesheet.DayCell
		want string
	}{
		{timesheet.DayCell{Kind: timesheet.CellWorked, Hours: 8}, "8.0"},
		{timesheet.DayCell{Kind: timesheet.CellWorked, Hours: 7.5, Visitor: true}, "7.5V"},
		{timesheet.DayCell{Kind: timesheet.CellLeave, LeaveType: "medical"}, "CM"},
		{timesheet.DayCell{Kind: timesheet.CellLeave}, "L"},
		{timesheet.DayCell{}, ""},
	}
	for _, tc := range cases {
		if got := cellText(tc.cell); got != tc.want {
			t.Fatalf("cellText(%+v) = %q, want %q", tc.cell, got, tc.want)
		}
	}
}
