package payroll

import "errors"

var (
	ErrRunNotFound     = errors.New("payroll run not found")
	ErrPayslipNotFound = errors.New("payslip not found")
	// ErrRunAlreadyExists is returned by the repository when an insert races a
	// concurrent creation for the same period key.
	ErrRunAlreadyExists = errors.New("payroll run already exists for this period")
	// ErrInvalidTransition rejects a lifecycle move before any write happens.
	ErrInvalidTransition = errors.New("invalid payroll run transition")
	// ErrTransactionConflict surfaces after the transactional write lost its
	// race and retries were exhausted. The caller should prompt for a retry
	// rather than trust stale data.
	ErrTransactionConflict = errors.New("payroll transaction conflict")
	ErrInvalidPeriod       = errors.New("invalid payroll period")
	ErrInvalidDecision     = errors.New("invalid payslip decision")
	ErrNoPayableEmployees  = errors.New("no payable employees for this period")
)
