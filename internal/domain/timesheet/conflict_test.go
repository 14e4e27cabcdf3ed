package timesheet

import (
	"testing"
	"time"

	"pontaj/internal/domain/leave"
)

func testDay() time.Time {
	return time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
}

func workEntry(employeeID, workplaceID string, entryType EntryType, start, end string) Entry {
	return Entry{
		EmployeeID:  employeeID,
		WorkplaceID: workplaceID,
		Date:        testDay(),
		StartTime:   start,
		EndTime:     end,
		HoursWorked: CalcDurationHours(start, end),
		Status:      StatusPrezent,
		Type:        entryType,
	}
}

func TestDetectClean(t *testing.T) {
	candidate := workEntry("emp-1", "wp-1", TypeHome, "08:00", "16:00")
	if c := Detect(candidate, nil, nil); c != nil {
		t.Fatalf("expected clean save, got %v", c.Code)
	}
}

func TestDetectLeaveApproved(t *testing.T) {
	candidate := workEntry("emp-1", "wp-1", TypeHome, "08:00", "16:00")
	leaves := []leave.Leave{{
		ID:         "l-1",
		EmployeeID: "emp-1",
		Type:       leave.TypeOdihna,
		StartDate:  testDay().AddDate(0, 0, -2),
		EndDate:    testDay().AddDate(0, 0, 2),
		Status:     leave.StatusApproved,
	}}

	c := Detect(candidate, nil, leaves)
	if c == nil || c.Code != ConflictLeaveApproved {
		t.Fatalf("expected LEAVE_APPROVED, got %v", c)
	}
	if !c.CanForce {
		t.Fatal("expected leave conflict to be forceable")
	}
	if c.Leave == nil || c.Leave.ID != "l-1" {
		t.Fatal("expected conflicting leave in payload")
	}

	// Pending leaves and non-work statuses never trigger the check.
	leaves[0].Status = leave.StatusPending
	if c := Detect(candidate, nil, leaves); c != nil {
		t.Fatalf("expected pending leave to be ignored, got %v", c.Code)
	}
	leaves[0].Status = leave.StatusApproved
	candidate.Status = StatusLiber
	candidate.StartTime, candidate.EndTime = "", ""
	if c := Detect(candidate, nil, leaves); c != nil {
		t.Fatalf("expected non-work status to be ignored, got %v", c.Code)
	}
}

func TestDetectOverlappingHours(t *testing.T) {
	existing := workEntry("emp-1", "wp-1", TypeHome, "09:00", "17:00")
	candidate := workEntry("emp-1", "wp-2", TypeVisitor, "16:00", "20:00")

	c := Detect(candidate, []Entry{existing}, nil)
	if c == nil || c.Code != ConflictOverlappingHours {
		t.Fatalf("expected OVERLAPPING_HOURS, got %v", c)
	}
	if !c.CanForce {
		t.Fatal("expected overlap conflict to be forceable")
	}
	if c.OverlappingEntry == nil || c.OverlappingEntry.WorkplaceID != "wp-1" {
		t.Fatal("expected prior entry in payload")
	}
	if c.NewEntry == nil || c.NewEntry.WorkplaceID != "wp-2" {
		t.Fatal("expected candidate echo in payload")
	}
}

func TestDetectOverlapIgnoresSameWorkplace(t *testing.T) {
	existing := workEntry("emp-1", "wp-1", TypeHome, "09:00", "17:00")
	candidate := workEntry("emp-1", "wp-1", TypeHome, "10:00", "18:00")

	c := Detect(candidate, []Entry{existing}, nil)
	if c == nil || c.Code != ConflictPontajExists {
		t.Fatalf("expected same-workplace rewrite to classify as PONTAJ_EXISTS, got %v", c)
	}
}

func TestDetectVisitorElsewhere(t *testing.T) {
	visitor := workEntry("emp-1", "wp-2", TypeVisitor, "08:00", "12:00")
	candidate := workEntry("emp-1", "wp-1", TypeHome, "14:00", "20:00")

	c := Detect(candidate, []Entry{visitor}, nil)
	if c == nil || c.Code != ConflictVisitorAlreadyPonted {
		t.Fatalf("expected VISITOR_ALREADY_PONTED, got %v", c)
	}
	if c.CanForce {
		t.Fatal("visitor conflict must not be forceable")
	}
	if c.VisitorEntry == nil || c.VisitorEntry.WorkplaceID != "wp-2" {
		t.Fatal("expected visitor entry in payload")
	}
}

func TestDetectPontajExists(t *testing.T) {
	existing := workEntry("emp-1", "wp-1", TypeHome, "08:00", "16:00")
	candidate := workEntry("emp-1", "wp-1", TypeHome, "08:00", "16:00")

	c := Detect(candidate, []Entry{existing}, nil)
	if c == nil || c.Code != ConflictPontajExists {
		t.Fatalf("expected PONTAJ_EXISTS, got %v", c)
	}
	if !c.CanForce {
		t.Fatal("expected existing-entry conflict to be forceable")
	}
}

func TestDetectOrderLeaveFirst(t *testing.T) {
	// Leave, overlap and existing all apply: the leave check wins and only
	// one code is ever reported.
	existing := workEntry("emp-1", "wp-2", TypeVisitor, "08:00", "16:00")
	sameKey := workEntry("emp-1", "wp-1", TypeHome, "08:00", "16:00")
	candidate := workEntry("emp-1", "wp-1", TypeHome, "09:00", "17:00")
	leaves := []leave.Leave{{
		EmployeeID: "emp-1",
		Type:       leave.TypeMedical,
		StartDate:  testDay(),
		EndDate:    testDay(),
		Status:     leave.StatusApproved,
	}}

	c := Detect(candidate, []Entry{existing, sameKey}, leaves)
	if c == nil || c.Code != ConflictLeaveApproved {
		t.Fatalf("expected LEAVE_APPROVED to win, got %v", c)
	}
}

func TestOverlappingEntries(t *testing.T) {
	a := workEntry("emp-1", "wp-1", TypeHome, "09:00", "17:00")
	b := workEntry("emp-1", "wp-3", TypeVisitor, "06:00", "09:00")
	candidate := workEntry("emp-1", "wp-2", TypeVisitor, "16:00", "20:00")

	hits := OverlappingEntries(candidate, []Entry{a, b})
	if len(hits) != 1 || hits[0].WorkplaceID != "wp-1" {
		t.Fatalf("expected only the 09-17 entry to overlap, got %v", hits)
	}
}
