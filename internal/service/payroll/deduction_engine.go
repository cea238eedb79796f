package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/domain/leave"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
)

// Deduction line names as they appear on the payslip.
const (
	DeductionOverLimitLeave = "Over-limit leave"
	DeductionAbsence        = "Absence"
	DeductionSocialSecurity = "Social security"
	DeductionWithholdingTax = "Withholding tax"
)

var two = decimal.NewFromInt(2)

// DeductionInput is everything the rule engine consumes for one employee and
// one period. OverLimitLeaves must already be restricted to approved requests
// flagged over-limit.
type DeductionInput struct {
	Employee        employee.Employee
	Policy          Policy
	Key             payroll.PeriodKey
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Summary         PeriodSummary
	OverLimitLeaves []leave.LeaveRequest
	BasePay         decimal.Decimal
}

// BuildDeductions produces the ordered deduction list: over-limit leave
// lines, absence, social security, withholding tax. Every amount is rounded
// half-up to two decimals at the point the line is computed.
func BuildDeductions(in DeductionInput) []payroll.DeductionLine {
	salary := decimal.Zero
	if in.Employee.MonthlySalary != nil {
		salary = *in.Employee.MonthlySalary
	}

	var lines []payroll.DeductionLine
	lines = append(lines, overLimitLeaveLines(in, salary)...)

	if in.Summary.AbsentUnits.IsPositive() {
		dailyRate := salary.Div(in.Policy.BaseDays)
		amount := in.Summary.AbsentUnits.Mul(dailyRate).Round(2)
		lines = append(lines, payroll.DeductionLine{
			Name:   DeductionAbsence,
			Amount: amount,
			Notes:  fmt.Sprintf("%s absence unit(s)", in.Summary.AbsentUnits.String()),
		})
	}

	if in.Policy.SSOEnabled && in.Policy.SSOPercent.IsPositive() {
		period1, period2 := ssoPeriodAmounts(salary, in.Policy.SSOPercent, in.Policy.SSOMonthlyWageCap)
		amount := period1
		if in.Key.Period == 2 {
			amount = period2
		}
		if amount.IsPositive() {
			lines = append(lines, payroll.DeductionLine{
				Name:   DeductionSocialSecurity,
				Amount: amount,
				Notes:  fmt.Sprintf("%s%% of capped wage, period %d of 2", in.Policy.SSOPercent.Mul(decimal.NewFromInt(100)).String(), in.Key.Period),
			})
		}
	}

	if in.Policy.WithholdingEnabled && in.Policy.WithholdingPercent.IsPositive() {
		amount := in.BasePay.Mul(in.Policy.WithholdingPercent).Round(2)
		if amount.IsPositive() {
			lines = append(lines, payroll.DeductionLine{
				Name:   DeductionWithholdingTax,
				Amount: amount,
				Notes:  fmt.Sprintf("%s%% of period base pay", in.Policy.WithholdingPercent.Mul(decimal.NewFromInt(100)).String()),
			})
		}
	}

	return lines
}

// overLimitLeaveLines emits one line per over-limit leave request whose rule
// is deduct-salary and whose range overlaps the pay period. The overlap is
// clipped to the period.
func overLimitLeaveLines(in DeductionInput, salary decimal.Decimal) []payroll.DeductionLine {
	var lines []payroll.DeductionLine
	for _, lr := range in.OverLimitLeaves {
		rule := in.Policy.LeaveRuleFor(string(lr.Type))
		if rule.Handling != policy.OverLimitDeductSalary {
			continue
		}

		overlap := overlapDays(in.PeriodStart, in.PeriodEnd, lr.StartDate, lr.EndDate)
		if overlap <= 0 {
			continue
		}

		dailyRate := salary.Div(in.Policy.LeaveBaseDays(rule))
		amount := dailyRate.Mul(decimal.NewFromInt(int64(overlap))).Round(2)
		lines = append(lines, payroll.DeductionLine{
			Name:   fmt.Sprintf("%s (%s)", DeductionOverLimitLeave, lr.Type),
			Amount: amount,
			Notes:  fmt.Sprintf("%d day(s) over annual entitlement, %s to %s", overlap, DateKey(lr.StartDate), DateKey(lr.EndDate)),
		})
	}
	return lines
}

// ssoPeriodAmounts splits the monthly social-security contribution across the
// two pay periods without rounding drift: period 1 takes the floored half,
// period 2 the remainder against the rounded monthly figure, so the periods
// always sum to round(wageBase*percent, 2) exactly.
func ssoPeriodAmounts(salary, percent, monthlyCap decimal.Decimal) (period1, period2 decimal.Decimal) {
	wageBase := salary
	if monthlyCap.IsPositive() && salary.GreaterThan(monthlyCap) {
		wageBase = monthlyCap
	}

	fullMonth := wageBase.Mul(percent)
	period1 = fullMonth.Div(two).RoundDown(2)
	period2 = fullMonth.Round(2).Sub(period1)
	return period1, period2
}

// overlapDays counts the inclusive days shared by [periodStart, periodEnd]
// and [leaveStart, leaveEnd]; zero when disjoint.
func overlapDays(periodStart, periodEnd, leaveStart, leaveEnd time.Time) int {
	start := periodStart
	if leaveStart.After(start) {
		start = leaveStart
	}
	end := periodEnd
	if leaveEnd.Before(end) {
		end = leaveEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(dateOf(end).Sub(dateOf(start)).Hours()/24) + 1
}
