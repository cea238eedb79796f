package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/siamhr/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

func (r *payrollRepository) GetRunByKey(ctx context.Context, key payroll.PeriodKey) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, month, period, status, sent_at, created_at, updated_at
		FROM payroll_runs
		WHERE year = $1 AND month = $2 AND period = $3
	`

	return scanRun(q.QueryRow(ctx, query, key.Year, key.Month, key.Period))
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, month, period, status, sent_at, created_at, updated_at
		FROM payroll_runs
		WHERE id = $1
	`

	return scanRun(q.QueryRow(ctx, query, id))
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun, payslips []payroll.Payslip) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, year, month, period, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, year, month, period, status, sent_at, created_at, updated_at
	`

	created, err := scanRun(q.QueryRow(ctx, query, run.ID, run.Key.Year, run.Key.Month, run.Key.Period, run.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.PayrollRun{}, payroll.ErrRunAlreadyExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	for _, p := range payslips {
		if err := r.insertPayslip(ctx, q, created.ID, p); err != nil {
			return payroll.PayrollRun{}, err
		}
	}

	return created, nil
}

func (r *payrollRepository) MarkRunSent(ctx context.Context, runID string, sentAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	// Run and payslips are stamped in the same transaction; a reader must
	// never see a sent run with unstamped payslips.
	tag, err := q.Exec(ctx, `
		UPDATE payroll_runs
		SET status = $1, sent_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, payroll.RunStatusSentToEmployee, sentAt, runID, payroll.RunStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to mark payroll run sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrInvalidTransition
	}

	_, err = q.Exec(ctx, `
		UPDATE payslips
		SET sent_at = $1, updated_at = NOW()
		WHERE run_id = $2
	`, sentAt, runID)
	if err != nil {
		return fmt.Errorf("failed to stamp payslips sent: %w", err)
	}

	return nil
}

func (r *payrollRepository) MarkRunFinal(ctx context.Context, runID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_runs
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, payroll.RunStatusFinal, runID, payroll.RunStatusSentToEmployee)
	if err != nil {
		return fmt.Errorf("failed to finalize payroll run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrInvalidTransition
	}

	return nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `p.id, p.run_id, p.employee_id, e.full_name, r.year, r.month, r.period,
	p.base_salary, p.deductions, p.net_salary, p.counters, p.status, p.hr_note, p.sent_at,
	p.created_at, p.updated_at`

func (r *payrollRepository) GetPayslipsByRunID(ctx context.Context, runID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		INNER JOIN payroll_runs r ON p.run_id = r.id
		INNER JOIN employees e ON p.employee_id = e.id
		WHERE p.run_id = $1
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}

	return payslips, rows.Err()
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		INNER JOIN payroll_runs r ON p.run_id = r.id
		INNER JOIN employees e ON p.employee_id = e.id
		WHERE p.id = $1
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, err
	}

	return p, nil
}

func (r *payrollRepository) UpdatePayslipDecision(ctx context.Context, payslipID string, status payroll.PayslipStatus, note *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslips
		SET status = $1, hr_note = COALESCE($2, hr_note), updated_at = NOW()
		WHERE id = $3
	`, status, note, payslipID)
	if err != nil {
		return fmt.Errorf("failed to update payslip decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}

	return nil
}

// ========== HELPERS ==========

func (r *payrollRepository) insertPayslip(ctx context.Context, q database.Querier, runID string, p payroll.Payslip) error {
	deductions, err := json.Marshal(p.Deductions)
	if err != nil {
		return fmt.Errorf("failed to encode deductions: %w", err)
	}
	counters, err := json.Marshal(p.Counters)
	if err != nil {
		return fmt.Errorf("failed to encode counters: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO payslips (id, run_id, employee_id, base_salary, deductions, net_salary, counters, status, hr_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, runID, p.EmployeeID, p.BaseSalary, deductions, p.NetSalary, counters, p.Status, p.HRNote)
	if err != nil {
		return fmt.Errorf("failed to create payslip for employee %s: %w", p.EmployeeID, err)
	}

	return nil
}

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(
		&run.ID,
		&run.Key.Year,
		&run.Key.Month,
		&run.Key.Period,
		&run.Status,
		&run.SentAt,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to scan payroll run: %w", err)
	}
	return run, nil
}

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var deductions, counters []byte
	err := row.Scan(
		&p.ID,
		&p.RunID,
		&p.EmployeeID,
		&p.EmployeeName,
		&p.Key.Year,
		&p.Key.Month,
		&p.Key.Period,
		&p.BaseSalary,
		&deductions,
		&p.NetSalary,
		&counters,
		&p.Status,
		&p.HRNote,
		&p.SentAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}

	if len(deductions) > 0 {
		if err := json.Unmarshal(deductions, &p.Deductions); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to decode deductions: %w", err)
		}
	}
	if len(counters) > 0 {
		if err := json.Unmarshal(counters, &p.Counters); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to decode counters: %w", err)
		}
	}

	return p, nil
}
