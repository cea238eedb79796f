package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
)

// BasePayForPeriod is half the nominal monthly salary. Both periods split the
// monthly figure evenly regardless of how many calendar days they span.
func BasePayForPeriod(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Div(two).Round(2)
}

// AssemblePayslip combines base pay, the deduction list and the attendance
// aggregates into a payslip draft. Net pay is base pay minus the sum of the
// deduction amounts. Employees without a positive salary are excluded
// upstream and never reach this step.
func AssemblePayslip(emp employee.Employee, key payroll.PeriodKey, summary PeriodSummary, deductions []payroll.DeductionLine) payroll.Payslip {
	basePay := BasePayForPeriod(*emp.MonthlySalary)

	net := basePay
	for _, d := range deductions {
		net = net.Sub(d.Amount)
	}

	return payroll.Payslip{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Key:          key,
		BaseSalary:   basePay,
		Deductions:   deductions,
		NetSalary:    net,
		Counters: payroll.AttendanceCounters{
			Present:      summary.Present,
			Late:         summary.Late,
			AbsentUnits:  summary.AbsentUnits,
			LeaveDays:    summary.LeaveDays,
			LateMinutes:  summary.LateMinutes,
			ReviewNeeded: summary.ReviewNeeded,
			Notes:        summary.Notes,
		},
		Status: payroll.PayslipStatusPendingReview,
	}
}
