package payroll

import "context"

type PayrollService interface {
	// ComputeDraft calculates payslips for the period without persisting
	// anything. When a run already exists for the key, the persisted payslips
	// are returned instead of recomputing.
	ComputeDraft(ctx context.Context, req PeriodRequest) ([]PayslipResponse, error)

	// CreateRunIfAbsent creates the run and all its payslips as one atomic
	// unit. Idempotent by period key: an existing run is returned unchanged.
	CreateRunIfAbsent(ctx context.Context, req PeriodRequest) (RunResponse, error)

	GetRun(ctx context.Context, runID string) (RunResponse, error)

	// SendToEmployees moves a draft run to sent_to_employee and stamps every
	// payslip, atomically. Valid only from draft.
	SendToEmployees(ctx context.Context, runID string) error

	// FinalizeRun moves a sent run to final. Payslips are immutable after.
	FinalizeRun(ctx context.Context, runID string) error

	// RecordEmployeeDecision accepts or rejects one payslip. Independent of
	// the run's own state, but not allowed before the run was sent or after
	// it is final.
	RecordEmployeeDecision(ctx context.Context, payslipID string, req DecisionRequest) error
}
