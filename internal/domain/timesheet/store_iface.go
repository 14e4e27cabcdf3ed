package timesheet

import (
	"context"
	"time"

	"pontaj/internal/domain/leave"
	"pontaj/internal/domain/roster"
)

// StoreAPI is the canonical entry collection. Upsert runs the whole conflict
// protocol and the write inside one store-side transaction; there is no
// separate client-visible validate call to race against.
type StoreAPI interface {
	Upsert(ctx context.Context, candidate Entry, force bool) (*Entry, *Conflict, error)
	ListByWorkplaceAndRange(ctx context.Context, workplaceID string, from, to time.Time) ([]Entry, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) ([]Entry, error)
	DeleteByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (bool, error)
}

// Directory is the employee roster collaborator. ListByWorkplace returns the
// active home staff; Summary needs it so employees on leave show up even with
// no entries in the range.
type Directory interface {
	Get(ctx context.Context, employeeID string) (*roster.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]roster.Employee, error)
	ListByWorkplace(ctx context.Context, workplaceID string) ([]roster.Employee, error)
}

// LeaveSource exposes approved absence records for reconciliation views.
type LeaveSource interface {
	ListApproved(ctx context.Context, employeeIDs []string, from, to time.Time) ([]leave.Leave, error)
}
