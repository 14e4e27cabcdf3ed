package schedule

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pontaj/internal/domain/timesheet"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListByWorkplaceAndRange(ctx context.Context, workplaceID string, from, to time.Time) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, workplace_id, day, start_time, end_time, updated_at
    FROM planned_shifts
    WHERE workplace_id = $1 AND day BETWEEN $2 AND $3
    ORDER BY day, employee_id
  `, workplaceID, timesheet.Day(from), timesheet.Day(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.EmployeeID, &sh.WorkplaceID, &sh.Day, &sh.StartTime, &sh.EndTime, &sh.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// ReplaceRange swaps the planned shifts of a workplace for [from, to] in one
// transaction, so a month save is all-or-nothing.
func (s *Store) ReplaceRange(ctx context.Context, workplaceID string, from, to time.Time, shifts []Shift) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM planned_shifts
    WHERE workplace_id = $1 AND day BETWEEN $2 AND $3
  `, workplaceID, timesheet.Day(from), timesheet.Day(to)); err != nil {
		return err
	}

	for _, sh := range shifts {
		start := timesheet.NormalizeTime(sh.StartTime, "08:00")
		end := timesheet.NormalizeTime(sh.EndTime, "16:00")
		if _, err := tx.Exec(ctx, `
      INSERT INTO planned_shifts (employee_id, workplace_id, day, start_time, end_time)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (employee_id, day, workplace_id)
      DO UPDATE SET start_time = EXCLUDED.start_time,
                    end_time = EXCLUDED.end_time,
                    updated_at = now()
    `, sh.EmployeeID, workplaceID, timesheet.Day(sh.Day), start, end); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
