package timesheet

import (
	"pontaj/internal/domain/leave"
)

// ConflictCode is the closed taxonomy of reasons a save can be refused.
type ConflictCode string

const (
	ConflictLeaveApproved        ConflictCode = "LEAVE_APPROVED"
	ConflictOverlappingHours     ConflictCode = "OVERLAPPING_HOURS"
	ConflictVisitorAlreadyPonted ConflictCode = "VISITOR_ALREADY_PONTED"
	ConflictPontajExists         ConflictCode = "PONTAJ_EXISTS"
)

// Forceable reports whether the caller may retry the save with force=true.
// A visitor entry elsewhere must be removed at its origin workplace first;
// no force flag bypasses it.
func (c ConflictCode) Forceable() bool {
	return c != ConflictVisitorAlreadyPonted
}

type Conflict struct {
	Code             ConflictCode `json:"code"`
	CanForce         bool         `json:"canForce"`
	Leave            *leave.Leave `json:"leave,omitempty"`
	OverlappingEntry *Entry       `json:"overlappingEntry,omitempty"`
	VisitorEntry     *Entry       `json:"visitorEntry,omitempty"`
	NewEntry         *Entry       `json:"newEntry,omitempty"`
}

func newConflict(code ConflictCode) *Conflict {
	return &Conflict{Code: code, CanForce: code.Forceable()}
}

// Detect classifies a candidate save against all of the employee's entries
// for that day (across every workplace) and the employee's approved leaves.
// Checks run in a fixed order and the first applicable classification wins,
// so a request is never reported with more than one conflict code. A nil
// result means the candidate is clean.
func Detect(candidate Entry, dayEntries []Entry, leaves []leave.Leave) *Conflict {
	if c := detectLeave(candidate, leaves); c != nil {
		return c
	}
	if c := detectOverlap(candidate, dayEntries); c != nil {
		return c
	}
	if c := detectVisitorElsewhere(candidate, dayEntries); c != nil {
		return c
	}
	return detectExisting(candidate, dayEntries)
}

func detectLeave(candidate Entry, leaves []leave.Leave) *Conflict {
	if !candidate.Status.IsActiveWork() {
		return nil
	}
	for i := range leaves {
		l := leaves[i]
		if l.EmployeeID != candidate.EmployeeID || l.Status != leave.StatusApproved {
			continue
		}
		if l.Covers(candidate.Date) {
			c := newConflict(ConflictLeaveApproved)
			c.Leave = &l
			return c
		}
	}
	return nil
}

func detectOverlap(candidate Entry, dayEntries []Entry) *Conflict {
	if !candidate.HasWorkedInterval() {
		return nil
	}
	for i := range dayEntries {
		existing := dayEntries[i]
		if existing.WorkplaceID == candidate.WorkplaceID {
			continue
		}
		if !existing.HasWorkedInterval() {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime, existing.StartTime, existing.EndTime) {
			c := newConflict(ConflictOverlappingHours)
			c.OverlappingEntry = &existing
			c.NewEntry = &candidate
			return c
		}
	}
	return nil
}

func detectVisitorElsewhere(candidate Entry, dayEntries []Entry) *Conflict {
	if candidate.Type != TypeHome {
		return nil
	}
	for i := range dayEntries {
		existing := dayEntries[i]
		if existing.Type == TypeVisitor && existing.WorkplaceID != candidate.WorkplaceID {
			c := newConflict(ConflictVisitorAlreadyPonted)
			c.VisitorEntry = &existing
			return c
		}
	}
	return nil
}

// OverlappingEntries returns the existing entries at other workplaces whose
// worked intervals intersect the candidate's. A forced save removes each of
// them before persisting; overlapping entries never coexist across workplaces.
func OverlappingEntries(candidate Entry, dayEntries []Entry) []Entry {
	if !candidate.HasWorkedInterval() {
		return nil
	}
	var out []Entry
	for _, existing := range dayEntries {
		if existing.WorkplaceID == candidate.WorkplaceID || !existing.HasWorkedInterval() {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime, existing.StartTime, existing.EndTime) {
			out = append(out, existing)
		}
	}
	return out
}

func detectExisting(candidate Entry, dayEntries []Entry) *Conflict {
	key := candidate.Key()
	for i := range dayEntries {
		if dayEntries[i].Key() == key {
			c := newConflict(ConflictPontajExists)
			c.NewEntry = &candidate
			return c
		}
	}
	return nil
}
