package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for runs and their payslips. The
// mutating methods are expected to run inside the caller's transaction (the
// postgresql implementation picks the transaction up from the context).
type PayrollRepository interface {
	GetRunByKey(ctx context.Context, key PeriodKey) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string) (PayrollRun, error)
	// CreateRun inserts the run and all its payslips. Returns
	// ErrRunAlreadyExists when the period key is already taken.
	CreateRun(ctx context.Context, run PayrollRun, payslips []Payslip) (PayrollRun, error)
	GetPayslipsByRunID(ctx context.Context, runID string) ([]Payslip, error)
	GetPayslipByID(ctx context.Context, id string) (Payslip, error)
	// MarkRunSent stamps the run and every child payslip with sentAt. Both
	// updates belong to one transaction; a reader must never observe a sent
	// run with unstamped payslips.
	MarkRunSent(ctx context.Context, runID string, sentAt time.Time) error
	MarkRunFinal(ctx context.Context, runID string) error
	UpdatePayslipDecision(ctx context.Context, payslipID string, status PayslipStatus, note *string) error
}
