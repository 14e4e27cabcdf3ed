package reports

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"pontaj/internal/domain/roster"
	"pontaj/internal/domain/timesheet"
)

// AttendanceSheet renders the monthly attendance table for one workplace:
// one row per employee, worked hours per day, leave markers and the monthly
// total against the employee's target.
func AttendanceSheet(workplaceName string, snapshot *timesheet.Snapshot, employees []roster.Employee) ([]byte, error) {
	sorted := make([]roster.Employee, len(employees))
	copy(sorted, employees)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Pontaj %s", workplaceName))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%s - %s", snapshot.From.Format("2006-01-02"), snapshot.To.Format("2006-01-02")))
	pdf.Ln(8)

	days := rangeDays(snapshot.From, snapshot.To)
	nameWidth := 45.0
	totalWidth := 18.0
	dayWidth := (277.0 - nameWidth - totalWidth) / float64(len(days))

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(nameWidth, 6, "Angajat", "1", 0, "L", false, 0, "")
	for _, day := range days {
		pdf.CellFormat(dayWidth, 6, fmt.Sprintf("%d", day.Day()), "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(totalWidth, 6, "Total", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, emp := range sorted {
		pdf.CellFormat(nameWidth, 6, emp.Name, "1", 0, "L", false, 0, "")
		for _, day := range days {
			pdf.CellFormat(dayWidth, 6, cellText(snapshot.Days[emp.ID][timesheet.DayKey(day)]), "1", 0, "C", false, 0, "")
		}
		total := snapshot.Totals[emp.ID]
		label := fmt.Sprintf("%.1f", total)
		if emp.MonthlyTargetHours > 0 {
			label = fmt.Sprintf("%.1f/%.0f", total, emp.MonthlyTargetHours)
		}
		pdf.CellFormat(totalWidth, 6, label, "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellText(cell timesheet.DayCell) string {
	switch cell.Kind {
	case timesheet.CellWorked:
		if cell.Visitor {
			return fmt.Sprintf("%.1fV", cell.Hours)
		}
		return fmt.Sprintf("%.1f", cell.Hours)
	case timesheet.CellLeave:
		switch cell.LeaveType {
		case "odihna":
			return "CO"
		case "medical":
			return "CM"
		case "fara_plata":
			return "FP"
		case "eveniment":
			return "EV"
		default:
			return "L"
		}
	default:
		return ""
	}
}

func rangeDays(from, to time.Time) []time.Time {
	var out []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		out = append(out, day)
	}
	return out
}
