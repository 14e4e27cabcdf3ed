package timesheet

import (
	"context"
	"errors"
	"time"

	"pontaj/internal/domain/roster"
)

// Default shift bounds applied when an active-work save arrives with a
// missing or unparseable clock time.
const (
	defaultStartTime = "08:00"
	defaultEndTime   = "16:00"
)

// Service is the single public save entry point: it validates the candidate
// structurally, delegates the conflict protocol to the store's atomic upsert
// and reports the outcome. Reads for reconciliation go through Summary and
// never mutate the store.
type Service struct {
	Store     StoreAPI
	Directory Directory
	Leaves    LeaveSource
}

func NewService(store StoreAPI, directory Directory, leaves LeaveSource) *Service {
	return &Service{Store: store, Directory: directory, Leaves: leaves}
}

type SaveRequest struct {
	EmployeeID  string    `json:"employeeId"`
	WorkplaceID string    `json:"workplaceId"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Status      Status    `json:"status"`
	LeaveType   string    `json:"leaveType,omitempty"`
	Force       bool      `json:"force"`
}

type SaveState string

const (
	SavePersisted  SaveState = "persisted"
	SaveConflicted SaveState = "conflict"
)

type SaveOutcome struct {
	State    SaveState `json:"state"`
	Entry    *Entry    `json:"entry,omitempty"`
	Conflict *Conflict `json:"conflict,omitempty"`
}

// Save runs one candidate through the protocol. A conflicted outcome is not
// an error: the caller decides whether to re-submit with force or abandon.
func (s *Service) Save(ctx context.Context, req SaveRequest) (SaveOutcome, error) {
	candidate, err := s.buildCandidate(ctx, req)
	if err != nil {
		return SaveOutcome{}, err
	}

	entry, conflict, err := s.Store.Upsert(ctx, candidate, req.Force)
	if err != nil {
		return SaveOutcome{}, err
	}
	if conflict != nil {
		return SaveOutcome{State: SaveConflicted, Conflict: conflict}, nil
	}
	return SaveOutcome{State: SavePersisted, Entry: entry}, nil
}

type BatchItemResult struct {
	Index   int          `json:"index"`
	Outcome *SaveOutcome `json:"outcome,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// SaveBatch saves each candidate independently. A missing or inactive
// employee and structural problems fail only their own item; storage errors
// abort the rest of the batch so the caller can retry it whole.
func (s *Service) SaveBatch(ctx context.Context, reqs []SaveRequest) ([]BatchItemResult, error) {
	results := make([]BatchItemResult, 0, len(reqs))
	for i, req := range reqs {
		outcome, err := s.Save(ctx, req)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidDate) {
				results = append(results, BatchItemResult{Index: i, Error: err.Error()})
				continue
			}
			return results, err
		}
		results = append(results, BatchItemResult{Index: i, Outcome: &outcome})
	}
	return results, nil
}

// Delete removes the employee's entries for the day; deleting a day that was
// never filled in is a no-op, not an error.
func (s *Service) Delete(ctx context.Context, employeeID string, day time.Time) error {
	_, err := s.Store.DeleteByEmployeeAndDate(ctx, employeeID, day)
	return err
}

// ListRange returns the deduplicated entries recorded at a workplace.
func (s *Service) ListRange(ctx context.Context, workplaceID string, from, to time.Time) ([]Entry, error) {
	entries, err := s.Store.ListByWorkplaceAndRange(ctx, workplaceID, from, to)
	if err != nil {
		return nil, err
	}
	return Dedupe(entries), nil
}

// Summary assembles the reconciled workplace view for the range. Leaves are
// fetched for the whole home staff, not just employees with entries, so an
// approved leave still shows as a day marker when no entry was ever recorded.
func (s *Service) Summary(ctx context.Context, workplaceID string, from, to time.Time) (*Snapshot, error) {
	entries, err := s.Store.ListByWorkplaceAndRange(ctx, workplaceID, from, to)
	if err != nil {
		return nil, err
	}
	entries = Dedupe(entries)

	staff, err := s.Directory.ListByWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, err
	}
	staffIDs := make(map[string]struct{}, len(staff))
	ids := make([]string, 0, len(staff))
	for _, emp := range staff {
		staffIDs[emp.ID] = struct{}{}
		ids = append(ids, emp.ID)
	}

	// Entries can also reference visitors from other workplaces.
	var visitorIDs []string
	for _, id := range distinctEmployeeIDs(entries) {
		if _, ok := staffIDs[id]; !ok {
			visitorIDs = append(visitorIDs, id)
			ids = append(ids, id)
		}
	}

	employees := staff
	if len(visitorIDs) > 0 {
		visitors, err := s.Directory.ListByIDs(ctx, visitorIDs)
		if err != nil {
			return nil, err
		}
		employees = append(employees, visitors...)
	}

	leaves, err := s.Leaves.ListApproved(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	snapshot := Reconcile(workplaceID, from, to, entries, employees, leaves)
	return &snapshot, nil
}

func (s *Service) buildCandidate(ctx context.Context, req SaveRequest) (Entry, error) {
	if !req.Status.Valid() {
		return Entry{}, ErrInvalidStatus
	}
	if req.Date.IsZero() {
		return Entry{}, ErrInvalidDate
	}

	emp, err := s.Directory.Get(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, roster.ErrEmployeeNotFound) {
			return Entry{}, ErrEmployeeNotFound
		}
		return Entry{}, err
	}
	if !emp.IsActive {
		return Entry{}, ErrEmployeeNotFound
	}

	entry := Entry{
		EmployeeID:  req.EmployeeID,
		WorkplaceID: req.WorkplaceID,
		Date:        Day(req.Date),
		Status:      req.Status,
		Type:        TypeHome,
	}
	if req.WorkplaceID != emp.HomeWorkplaceID {
		entry.Type = TypeVisitor
	}

	if req.Status.IsActiveWork() {
		entry.StartTime = NormalizeTime(req.StartTime, defaultStartTime)
		entry.EndTime = NormalizeTime(req.EndTime, defaultEndTime)
		entry.HoursWorked = CalcDurationHours(entry.StartTime, entry.EndTime)
		return entry, nil
	}

	entry.LeaveType = absenceLeaveType(req.Status, req.LeaveType)
	return entry, nil
}

// absenceLeaveType fills the leave type for absence statuses that imply one.
func absenceLeaveType(status Status, requested string) string {
	if requested != "" {
		return requested
	}
	switch status {
	case StatusConcediu:
		return "odihna"
	case StatusMedical:
		return "medical"
	default:
		return ""
	}
}

func distinctEmployeeIDs(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	var ids []string
	for _, e := range entries {
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		ids = append(ids, e.EmployeeID)
	}
	return ids
}
