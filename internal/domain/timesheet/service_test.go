package timesheet

import (
	"context"
	"errors"
	"testing"
	"time"

	"pontaj/internal/domain/leave"
	"pontaj/internal/domain/roster"
)

// memStore mirrors the store-side save protocol in memory: the same Detect
// and forced-overlap resolution, with a map standing in for the unique
// constraint.
type memStore struct {
	entries map[EntryKey]Entry
	leaves  []leave.Leave
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[EntryKey]Entry)}
}

func (m *memStore) dayEntries(employeeID string, day time.Time) []Entry {
	var out []Entry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && SameDay(e.Date, day) {
			out = append(out, e)
		}
	}
	return out
}

func (m *memStore) approvedLeaves(employeeID string, day time.Time) []leave.Leave {
	var out []leave.Leave
	for _, l := range m.leaves {
		if l.EmployeeID == employeeID && l.Status == leave.StatusApproved && l.Covers(day) {
			out = append(out, l)
		}
	}
	return out
}

func (m *memStore) Upsert(_ context.Context, candidate Entry, force bool) (*Entry, *Conflict, error) {
	dayEntries := m.dayEntries(candidate.EmployeeID, candidate.Date)
	leaves := m.approvedLeaves(candidate.EmployeeID, candidate.Date)

	if conflict := Detect(candidate, dayEntries, leaves); conflict != nil {
		if !force || !conflict.Code.Forceable() {
			return nil, conflict, nil
		}
	}
	if force {
		if conflict := detectVisitorElsewhere(candidate, dayEntries); conflict != nil {
			return nil, conflict, nil
		}
		for _, existing := range OverlappingEntries(candidate, dayEntries) {
			delete(m.entries, existing.Key())
		}
	}

	m.entries[candidate.Key()] = candidate
	saved := candidate
	return &saved, nil, nil
}

func (m *memStore) ListByWorkplaceAndRange(_ context.Context, workplaceID string, from, to time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.WorkplaceID != workplaceID {
			continue
		}
		if e.Date.Before(Day(from)) || e.Date.After(Day(to)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) ListByEmployeeAndDate(_ context.Context, employeeID string, day time.Time) ([]Entry, error) {
	return m.dayEntries(employeeID, day), nil
}

func (m *memStore) DeleteByEmployeeAndDate(_ context.Context, employeeID string, day time.Time) (bool, error) {
	removed := false
	for key, e := range m.entries {
		if e.EmployeeID == employeeID && SameDay(e.Date, day) {
			delete(m.entries, key)
			removed = true
		}
	}
	return removed, nil
}

func (m *memStore) ListApproved(_ context.Context, employeeIDs []string, from, to time.Time) ([]leave.Leave, error) {
	ids := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = struct{}{}
	}
	var out []leave.Leave
	for _, l := range m.leaves {
		if _, ok := ids[l.EmployeeID]; !ok {
			continue
		}
		if l.Status == leave.StatusApproved && l.OverlapsRange(from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type memDirectory struct {
	employees map[string]roster.Employee
}

func (d *memDirectory) Get(_ context.Context, employeeID string) (*roster.Employee, error) {
	emp, ok := d.employees[employeeID]
	if !ok {
		return nil, roster.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (d *memDirectory) ListByIDs(_ context.Context, ids []string) ([]roster.Employee, error) {
	var out []roster.Employee
	for _, id := range ids {
		if emp, ok := d.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (d *memDirectory) ListByWorkplace(_ context.Context, workplaceID string) ([]roster.Employee, error) {
	var out []roster.Employee
	for _, emp := range d.employees {
		if emp.HomeWorkplaceID == workplaceID && emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func newTestService(store *memStore) *Service {
	directory := &memDirectory{employees: map[string]roster.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana", HomeWorkplaceID: "wp-1", MonthlyTargetHours: 168, IsActive: true},
		"emp-2": {ID: "emp-2", Name: "Bogdan", HomeWorkplaceID: "wp-2", MonthlyTargetHours: 168, IsActive: true},
		"emp-3": {ID: "emp-3", Name: "Carmen", HomeWorkplaceID: "wp-1", MonthlyTargetHours: 168, IsActive: false},
	}}
	return NewService(store, directory, store)
}

func saveReq(employeeID, workplaceID, start, end string) SaveRequest {
	return SaveRequest{
		EmployeeID:  employeeID,
		WorkplaceID: workplaceID,
		Date:        testDay(),
		StartTime:   start,
		EndTime:     end,
		Status:      StatusPrezent,
	}
}

func TestSaveClean(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	outcome, err := svc.Save(context.Background(), saveReq("emp-1", "wp-1", "08:00", "16:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SavePersisted || outcome.Entry == nil {
		t.Fatalf("expected persisted outcome, got %+v", outcome)
	}
	if outcome.Entry.HoursWorked != 8 {
		t.Fatalf("expected derived hours 8, got %v", outcome.Entry.HoursWorked)
	}
	if outcome.Entry.Type != TypeHome {
		t.Fatalf("expected home entry at own workplace, got %v", outcome.Entry.Type)
	}
}

func TestSaveVisitorTypeDerived(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	outcome, err := svc.Save(context.Background(), saveReq("emp-2", "wp-1", "08:00", "12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Entry.Type != TypeVisitor {
		t.Fatalf("expected visitor entry at a foreign workplace, got %v", outcome.Entry.Type)
	}
	if outcome.Entry.WorkplaceID == "wp-2" {
		t.Fatal("visitor entry must target the foreign workplace")
	}
}

func TestSaveInactiveEmployee(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Save(context.Background(), saveReq("emp-3", "wp-1", "08:00", "16:00"))
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	_, err = svc.Save(context.Background(), saveReq("missing", "wp-1", "08:00", "16:00"))
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound for unknown id, got %v", err)
	}
}

func TestSaveUniquenessPerKey(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	req := saveReq("emp-1", "wp-1", "08:00", "16:00")
	if _, err := svc.Save(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := svc.Save(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SaveConflicted || outcome.Conflict.Code != ConflictPontajExists {
		t.Fatalf("expected PONTAJ_EXISTS on repeat save, got %+v", outcome)
	}

	req.Force = true
	req.StartTime, req.EndTime = "10:00", "18:00"
	for i := 0; i < 3; i++ {
		if _, err := svc.Save(ctx, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected exactly one entry per key, got %d", len(store.entries))
	}
	for _, e := range store.entries {
		if e.StartTime != "10:00" {
			t.Fatalf("expected forced save to replace entry, got start %s", e.StartTime)
		}
	}
}

func TestSaveOverlapForcedReplaces(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Save(ctx, saveReq("emp-1", "wp-1", "09:00", "17:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	candidate := saveReq("emp-1", "wp-2", "16:00", "20:00")
	outcome, err := svc.Save(ctx, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SaveConflicted || outcome.Conflict.Code != ConflictOverlappingHours {
		t.Fatalf("expected OVERLAPPING_HOURS, got %+v", outcome)
	}

	candidate.Force = true
	outcome, err = svc.Save(ctx, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SavePersisted {
		t.Fatalf("expected forced save to persist, got %+v", outcome)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected the prior entry to be removed, got %d entries", len(store.entries))
	}
	for _, e := range store.entries {
		if e.WorkplaceID != "wp-2" {
			t.Fatalf("expected only the forced entry to survive, got workplace %s", e.WorkplaceID)
		}
	}
}

func TestSaveLeaveConflictForcedKeepsLeave(t *testing.T) {
	store := newMemStore()
	store.leaves = []leave.Leave{{
		ID:         "l-1",
		EmployeeID: "emp-1",
		Type:       leave.TypeOdihna,
		StartDate:  testDay(),
		EndDate:    testDay(),
		Status:     leave.StatusApproved,
	}}
	svc := newTestService(store)
	ctx := context.Background()

	req := saveReq("emp-1", "wp-1", "08:00", "16:00")
	outcome, err := svc.Save(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SaveConflicted || outcome.Conflict.Code != ConflictLeaveApproved {
		t.Fatalf("expected LEAVE_APPROVED, got %+v", outcome)
	}

	req.Force = true
	outcome, err = svc.Save(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SavePersisted {
		t.Fatalf("expected forced save to persist, got %+v", outcome)
	}
	if len(store.leaves) != 1 || store.leaves[0].Status != leave.StatusApproved {
		t.Fatal("expected the leave record to remain untouched")
	}
}

func TestSaveVisitorConflictNeverForceable(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Save(ctx, saveReq("emp-1", "wp-2", "08:00", "12:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home := saveReq("emp-1", "wp-1", "14:00", "20:00")
	outcome, err := svc.Save(ctx, home)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SaveConflicted || outcome.Conflict.Code != ConflictVisitorAlreadyPonted {
		t.Fatalf("expected VISITOR_ALREADY_PONTED, got %+v", outcome)
	}

	home.Force = true
	outcome, err = svc.Save(ctx, home)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SaveConflicted || outcome.Conflict.Code != ConflictVisitorAlreadyPonted {
		t.Fatalf("expected force to be refused, got %+v", outcome)
	}

	// Removing the visitor entry at its origin is the resolution path.
	if err := svc.Delete(ctx, "emp-1", testDay()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	home.Force = false
	outcome, err = svc.Save(ctx, home)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != SavePersisted {
		t.Fatalf("expected save after cleanup to persist, got %+v", outcome)
	}
}

func TestSaveBatchContinuesPastBadEmployee(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	results, err := svc.SaveBatch(context.Background(), []SaveRequest{
		saveReq("emp-1", "wp-1", "08:00", "16:00"),
		saveReq("emp-3", "wp-1", "08:00", "16:00"),
		saveReq("emp-2", "wp-2", "08:00", "16:00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != "" || results[2].Error != "" {
		t.Fatal("expected healthy items to succeed")
	}
	if results[1].Error == "" {
		t.Fatal("expected the inactive employee item to fail alone")
	}
	if len(store.entries) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(store.entries))
	}
}

func TestDeleteRemovesFromReadsAndTotals(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Save(ctx, saveReq("emp-1", "wp-1", "08:00", "16:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, "emp-1", testDay()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Deleting again is a no-op, not an error.
	if err := svc.Delete(ctx, "emp-1", testDay()); err != nil {
		t.Fatalf("unexpected error on repeat delete: %v", err)
	}

	snapshot, err := svc.Summary(ctx, "wp-1", testDay(), testDay().AddDate(0, 0, 27))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Entries) != 0 {
		t.Fatal("expected deleted entry to vanish from range reads")
	}
	if snapshot.Totals["emp-1"] != 0 {
		t.Fatalf("expected zero aggregate hours, got %v", snapshot.Totals["emp-1"])
	}
}

func TestSummaryLeaveMarkerWithoutEntries(t *testing.T) {
	store := newMemStore()
	store.leaves = []leave.Leave{{
		ID:         "l-1",
		EmployeeID: "emp-1",
		Type:       leave.TypeOdihna,
		StartDate:  testDay(),
		EndDate:    testDay().AddDate(0, 0, 2),
		Status:     leave.StatusApproved,
	}}
	svc := newTestService(store)

	// No timesheet entry was ever recorded for emp-1 in the range.
	snapshot, err := svc.Summary(context.Background(), "wp-1", testDay(), testDay().AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	days := snapshot.Days["emp-1"]
	if len(days) != 3 {
		t.Fatalf("expected 3 leave markers, got %v", days)
	}
	for i := 0; i < 3; i++ {
		cell, ok := days[DayKey(testDay().AddDate(0, 0, i))]
		if !ok || cell.Kind != CellLeave {
			t.Fatalf("expected leave cell on day %d, got %+v", i, cell)
		}
		if cell.LeaveType != string(leave.TypeOdihna) {
			t.Fatalf("expected odihna marker, got %+v", cell)
		}
	}
	if snapshot.Totals["emp-1"] != 0 {
		t.Fatalf("expected no worked hours, got %v", snapshot.Totals["emp-1"])
	}
}

func TestSummaryVisitorRosterAndTotals(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Save(ctx, saveReq("emp-1", "wp-1", "08:00", "16:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	visitor := saveReq("emp-2", "wp-1", "22:00", "06:00")
	visitor.Status = StatusGarda
	if _, err := svc.Save(ctx, visitor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, err := svc.Summary(ctx, "wp-1", testDay(), testDay())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Visitors) != 1 || snapshot.Visitors[0].ID != "emp-2" {
		t.Fatalf("expected emp-2 in the visitor roster, got %v", snapshot.Visitors)
	}
	if snapshot.Totals["emp-2"] != 8 {
		t.Fatalf("expected overnight gardă to count 8 hours, got %v", snapshot.Totals["emp-2"])
	}
}
