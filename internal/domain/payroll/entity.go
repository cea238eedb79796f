package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum. Transitions are strictly forward:
// draft -> sent_to_employee -> final.
type RunStatus string

const (
	RunStatusDraft          RunStatus = "draft"
	RunStatusSentToEmployee RunStatus = "sent_to_employee"
	RunStatusFinal          RunStatus = "final"
)

// PeriodKey identifies one payroll run: one of the two half-month windows of a
// calendar month. A run is created at most once per key while it exists.
type PeriodKey struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Period int `json:"period"` // 1 or 2
}

// PayrollRun owns its payslips; they are created together and finalized
// together.
type PayrollRun struct {
	ID        string
	Key       PeriodKey
	Status    RunStatus
	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PayslipStatus string

const (
	PayslipStatusPendingReview PayslipStatus = "pending_review"
	PayslipStatusAccepted      PayslipStatus = "accepted"
	PayslipStatusRejected      PayslipStatus = "rejected"
)

// DeductionLine is one named deduction on a payslip. Amounts are rounded to
// two decimal places at the point the line is computed so they match the
// legally filed figures.
type DeductionLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

// AttendanceCounters are the period aggregates the payslip figures were
// derived from. AbsentUnits is fractional: absences are charged in half-day
// units.
type AttendanceCounters struct {
	Present      int             `json:"present"`
	Late         int             `json:"late"`
	AbsentUnits  decimal.Decimal `json:"absent_units"`
	LeaveDays    int             `json:"leave_days"`
	LateMinutes  int             `json:"late_minutes"`
	ReviewNeeded bool            `json:"review_needed"`
	Notes        []string        `json:"notes,omitempty"`
}

// Payslip is one employee's figures for one run. Immutable once the run is
// final.
type Payslip struct {
	ID           string
	RunID        string
	EmployeeID   string
	EmployeeName string
	Key          PeriodKey
	BaseSalary   decimal.Decimal
	Deductions   []DeductionLine
	NetSalary    decimal.Decimal
	Counters     AttendanceCounters
	Status       PayslipStatus
	HRNote       *string
	SentAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalDeductions sums the line amounts.
func (p Payslip) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.Deductions {
		total = total.Add(d.Amount)
	}
	return total
}
