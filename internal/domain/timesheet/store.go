package timesheet

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pontaj/internal/domain/leave"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = `employee_id, workplace_id, day, start_time, end_time, hours_worked, status, leave_type, entry_type, created_at, updated_at`

// Upsert runs the save protocol in a single transaction: lock the employee's
// day, detect conflicts against entries at every workplace plus approved
// leaves, resolve forced overlaps by deleting the prior entries, then insert
// or replace the row at its composite key. The unique constraint on
// (employee_id, day, workplace_id, entry_type) is the serialization point.
func (s *Store) Upsert(ctx context.Context, candidate Entry, force bool) (*Entry, *Conflict, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serializes writers for the same employee/day even before any row
	// exists to lock.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`,
		candidate.EmployeeID, DayKey(candidate.Date)); err != nil {
		return nil, nil, err
	}

	dayEntries, err := s.lockDayEntries(ctx, tx, candidate.EmployeeID, candidate.Date)
	if err != nil {
		return nil, nil, err
	}

	leaves, err := s.approvedLeavesForDay(ctx, tx, candidate.EmployeeID, candidate.Date)
	if err != nil {
		return nil, nil, err
	}

	if conflict := Detect(candidate, dayEntries, leaves); conflict != nil {
		if !force || !conflict.Code.Forceable() {
			return nil, conflict, nil
		}
	}

	if force {
		// Force skips the forceable checks but never the visitor rule.
		if conflict := detectVisitorElsewhere(candidate, dayEntries); conflict != nil {
			return nil, conflict, nil
		}
		for _, existing := range OverlappingEntries(candidate, dayEntries) {
			if _, err := tx.Exec(ctx, `
        DELETE FROM timesheet_entries
        WHERE employee_id = $1 AND day = $2 AND workplace_id = $3 AND entry_type = $4
      `, existing.EmployeeID, Day(existing.Date), existing.WorkplaceID, string(existing.Type)); err != nil {
				return nil, nil, err
			}
		}
	}

	saved := candidate
	saved.Date = Day(candidate.Date)
	if err := tx.QueryRow(ctx, `
    INSERT INTO timesheet_entries (employee_id, workplace_id, day, start_time, end_time, hours_worked, status, leave_type, entry_type)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (employee_id, day, workplace_id, entry_type)
    DO UPDATE SET start_time = EXCLUDED.start_time,
                  end_time = EXCLUDED.end_time,
                  hours_worked = EXCLUDED.hours_worked,
                  status = EXCLUDED.status,
                  leave_type = EXCLUDED.leave_type,
                  updated_at = now()
    RETURNING created_at, updated_at
  `, saved.EmployeeID, saved.WorkplaceID, saved.Date, saved.StartTime, saved.EndTime,
		saved.HoursWorked, string(saved.Status), saved.LeaveType, string(saved.Type),
	).Scan(&saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &saved, nil, nil
}

func (s *Store) lockDayEntries(ctx context.Context, tx pgx.Tx, employeeID string, day time.Time) ([]Entry, error) {
	rows, err := tx.Query(ctx, `
    SELECT `+entryColumns+`
    FROM timesheet_entries
    WHERE employee_id = $1 AND day = $2
    FOR UPDATE
  `, employeeID, Day(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *Store) approvedLeavesForDay(ctx context.Context, tx pgx.Tx, employeeID string, day time.Time) ([]leave.Leave, error) {
	rows, err := tx.Query(ctx, `
    SELECT id, employee_id, leave_type, start_date, end_date, status, created_at
    FROM leaves
    WHERE employee_id = $1
      AND status = $2
      AND start_date <= $3
      AND end_date >= $3
  `, employeeID, string(leave.StatusApproved), Day(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.Leave
	for rows.Next() {
		var l leave.Leave
		var leaveType, status string
		if err := rows.Scan(&l.ID, &l.EmployeeID, &leaveType, &l.StartDate, &l.EndDate, &status, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Type = leave.Type(leaveType)
		l.Status = leave.Status(status)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListByWorkplaceAndRange returns every entry recorded at the workplace for
// the range: home entries of its own staff plus visitor entries of employees
// from other workplaces.
func (s *Store) ListByWorkplaceAndRange(ctx context.Context, workplaceID string, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM timesheet_entries
    WHERE workplace_id = $1 AND day BETWEEN $2 AND $3
    ORDER BY day, employee_id, entry_type
  `, workplaceID, Day(from), Day(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *Store) ListByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM timesheet_entries
    WHERE employee_id = $1 AND day = $2
    ORDER BY workplace_id, entry_type
  `, employeeID, Day(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// DeleteByEmployeeAndDate removes the employee's entries for the day. Absence
// is not an error; the result reports whether anything was removed.
func (s *Store) DeleteByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM timesheet_entries
    WHERE employee_id = $1 AND day = $2
  `, employeeID, Day(day))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var status, entryType string
		if err := rows.Scan(&e.EmployeeID, &e.WorkplaceID, &e.Date, &e.StartTime, &e.EndTime,
			&e.HoursWorked, &status, &e.LeaveType, &entryType, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Status = Status(status)
		e.Type = EntryType(entryType)
		out = append(out, e)
	}
	return out, rows.Err()
}
