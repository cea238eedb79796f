package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, full_name, employee_code, employment_status, pay_type, monthly_salary, start_date, end_date, created_at, updated_at`

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

func (r *employeeRepository) GetPayable(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	// Unpaid employees and employees without a positive salary never appear
	// on a payroll run.
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE employment_status IN ('active', 'suspended')
		  AND pay_type <> 'unpaid'
		  AND monthly_salary IS NOT NULL
		  AND monthly_salary > 0
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payable employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.FullName,
		&emp.EmployeeCode,
		&emp.EmploymentStatus,
		&emp.PayType,
		&emp.MonthlySalary,
		&emp.StartDate,
		&emp.EndDate,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}
