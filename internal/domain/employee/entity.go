package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	FullName         string
	EmployeeCode     string
	EmploymentStatus EmploymentStatus
	PayType          PayType
	MonthlySalary    *decimal.Decimal
	StartDate        time.Time
	EndDate          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusSuspended  EmploymentStatus = "suspended"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

type PayType string

const (
	PayTypeMonthly             PayType = "monthly"
	PayTypeDaily               PayType = "daily"
	PayTypeMonthlyNoAttendance PayType = "monthly_no_attendance"
	PayTypeUnpaid              PayType = "unpaid"
)

// Payable reports whether the employee can appear on a payroll run.
// Unpaid employees and employees without a positive salary never do.
func (e Employee) Payable() bool {
	if e.PayType == PayTypeUnpaid {
		return false
	}
	return e.MonthlySalary != nil && e.MonthlySalary.IsPositive()
}
