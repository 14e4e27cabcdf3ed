package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const leaveColumns = `id, employee_id, leave_type, start_date, end_date, status, created_at`

func (s *Store) Get(ctx context.Context, id string) (*Leave, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+leaveColumns+`
    FROM leaves
    WHERE id = $1
  `, id)
	l, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) Create(ctx context.Context, l Leave) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leaves (id, employee_id, leave_type, start_date, end_date, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, l.ID, l.EmployeeID, string(l.Type), l.StartDate, l.EndDate, string(l.Status)).Scan(&id)
	return id, err
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leaves SET status = $2 WHERE id = $1
  `, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByWorkplaceAndRange returns leaves of employees whose home workplace is
// the given one, touching any day in [from, to].
func (s *Store) ListByWorkplaceAndRange(ctx context.Context, workplaceID string, from, to time.Time) ([]Leave, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.status, l.created_at
    FROM leaves l
    JOIN employees e ON l.employee_id = e.id
    WHERE e.home_workplace_id = $1
      AND l.start_date <= $3
      AND l.end_date >= $2
    ORDER BY l.start_date, l.employee_id
  `, workplaceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

// ListApproved returns the approved leaves of the given employees touching
// any day in [from, to].
func (s *Store) ListApproved(ctx context.Context, employeeIDs []string, from, to time.Time) ([]Leave, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+leaveColumns+`
    FROM leaves
    WHERE employee_id = ANY($1)
      AND status = $2
      AND start_date <= $4
      AND end_date >= $3
    ORDER BY start_date, employee_id
  `, employeeIDs, string(StatusApproved), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func collectLeaves(rows pgx.Rows) ([]Leave, error) {
	var out []Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	var leaveType, status string
	if err := row.Scan(&l.ID, &l.EmployeeID, &leaveType, &l.StartDate, &l.EndDate, &status, &l.CreatedAt); err != nil {
		return Leave{}, err
	}
	l.Type = Type(leaveType)
	l.Status = Status(status)
	return l, nil
}
