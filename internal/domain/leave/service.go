package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Create registers a pending leave request. Entries already recorded for the
// covered days are left alone; leave changes never cascade into the timesheet.
func (s *Service) Create(ctx context.Context, employeeID string, leaveType Type, start, end time.Time) (*Leave, error) {
	if !leaveType.Valid() {
		return nil, ErrInvalidType
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	l := Leave{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Status:     StatusPending,
	}
	if _, err := s.Store.Create(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*Leave, error) {
	return s.decide(ctx, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (*Leave, error) {
	return s.decide(ctx, id, StatusRejected)
}

func (s *Service) decide(ctx context.Context, id string, status Status) (*Leave, error) {
	l, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPending {
		return nil, ErrAlreadyDecided
	}
	if err := s.Store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	l.Status = status
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) ListByWorkplaceAndRange(ctx context.Context, workplaceID string, from, to time.Time) ([]Leave, error) {
	return s.Store.ListByWorkplaceAndRange(ctx, workplaceID, from, to)
}
