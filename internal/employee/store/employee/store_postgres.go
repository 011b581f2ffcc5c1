package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"darum/internal/employee/models"
	"darum/pkg/platform/sentinel"
)

const uniqueViolationCode = "23505"

const employeeColumns = `id, code, identity_id, email, first_name, last_name, department, position, status, created_at, updated_at`

// PostgresStore persists employee records in PostgreSQL via database/sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed employee store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, emp models.Employee) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO employees (`+employeeColumns+`)
        VALUES ($1, $2, $3, lower($4), $5, $6, $7, $8, $9, $10, $11)
    `, emp.ID, emp.Code, emp.IdentityID, emp.Email, emp.FirstName, emp.LastName,
		string(emp.Department), emp.Position, string(emp.Status), emp.CreatedAt, emp.UpdatedAt)
	if err != nil {
		return translateSQLError(err)
	}
	return nil
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (models.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+employeeColumns+` FROM employees WHERE code = $1
    `, code)
	return scanEmployee(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (models.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+employeeColumns+` FROM employees WHERE email = lower($1)
    `, email)
	return scanEmployee(row)
}

func (s *PostgresStore) FindByIdentityID(ctx context.Context, identityID string) (models.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+employeeColumns+` FROM employees WHERE identity_id = $1
    `, identityID)
	return scanEmployee(row)
}

func (s *PostgresStore) Update(ctx context.Context, emp models.Employee) (models.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
        UPDATE employees
           SET first_name = $1,
               last_name  = $2,
               department = $3,
               position   = $4,
               status     = $5,
               updated_at = $6
         WHERE id = $7
        RETURNING `+employeeColumns+`
    `, emp.FirstName, emp.LastName, string(emp.Department), emp.Position,
		string(emp.Status), emp.UpdatedAt, emp.ID)
	return scanEmployee(row)
}

func (s *PostgresStore) ListByDepartment(ctx context.Context, dept models.Department) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+employeeColumns+` FROM employees WHERE department = $1 ORDER BY code
    `, string(dept))
	if err != nil {
		return nil, fmt.Errorf("list by department: %w", err)
	}
	return collectEmployees(rows)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+employeeColumns+` FROM employees ORDER BY code
    `)
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return collectEmployees(rows)
}

func scanEmployee(row *sql.Row) (models.Employee, error) {
	var emp models.Employee
	var dept, status string
	err := row.Scan(&emp.ID, &emp.Code, &emp.IdentityID, &emp.Email, &emp.FirstName, &emp.LastName,
		&dept, &emp.Position, &status, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return models.Employee{}, translateSQLError(err)
	}
	emp.Department = models.Department(dept)
	emp.Status = models.Status(status)
	return emp, nil
}

func collectEmployees(rows *sql.Rows) ([]models.Employee, error) {
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var emp models.Employee
		var dept, status string
		if err := rows.Scan(&emp.ID, &emp.Code, &emp.IdentityID, &emp.Email, &emp.FirstName, &emp.LastName,
			&dept, &emp.Position, &status, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		emp.Department = models.Department(dept)
		emp.Status = models.Status(status)
		out = append(out, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

// translateSQLError maps driver errors to store sentinels. Unique violations
// are split by constraint so the caller can distinguish a retryable code
// collision from a genuine duplicate employee.
func translateSQLError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		if strings.Contains(pqErr.Constraint, "code") {
			return ErrDuplicateCode
		}
		return ErrDuplicateIdentity
	}
	return err
}
