package roster

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, name, home_workplace_id, monthly_target_hours, is_active, created_at`

func (s *Store) Get(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, employeeID)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) ListByWorkplace(ctx context.Context, workplaceID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE home_workplace_id = $1 AND is_active
    ORDER BY name
  `, workplaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func (s *Store) ListByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = ANY($1)
    ORDER BY name
  `, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func (s *Store) GetWorkplace(ctx context.Context, workplaceID string) (*Workplace, error) {
	var w Workplace
	err := s.DB.QueryRow(ctx, `
    SELECT id, name
    FROM workplaces
    WHERE id = $1
  `, workplaceID).Scan(&w.ID, &w.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkplaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) ListWorkplaces(ctx context.Context) ([]Workplace, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name
    FROM workplaces
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Workplace
	for rows.Next() {
		var w Workplace
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func collectEmployees(rows pgx.Rows) ([]Employee, error) {
	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.Name, &emp.HomeWorkplaceID, &emp.MonthlyTargetHours, &emp.IsActive, &emp.CreatedAt)
	return emp, err
}
