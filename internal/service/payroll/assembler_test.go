package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

func TestBasePayForPeriod(t *testing.T) {
	t.Parallel()

	assert.True(t, BasePayForPeriod(decimal.NewFromInt(30000)).Equal(decimal.NewFromInt(15000)))

	// An odd monthly figure rounds half-up at two decimals.
	assert.True(t, BasePayForPeriod(decimal.RequireFromString("30000.01")).
		Equal(decimal.RequireFromString("15000.01")))
}

func TestAssemblePayslip(t *testing.T) {
	t.Parallel()

	emp := testEmployee()
	key := payroll.PeriodKey{Year: 2024, Month: 1, Period: 1}
	summary := PeriodSummary{
		Present:     9,
		Late:        1,
		LateMinutes: 20,
		AbsentUnits: decimal.NewFromInt(2),
	}
	deductions := []payroll.DeductionLine{
		{Name: DeductionAbsence, Amount: decimal.RequireFromString("2307.69")},
		{Name: DeductionSocialSecurity, Amount: decimal.RequireFromString("375.00")},
	}

	slip := AssemblePayslip(emp, key, summary, deductions)

	assert.Equal(t, emp.ID, slip.EmployeeID)
	assert.Equal(t, emp.FullName, slip.EmployeeName)
	assert.Equal(t, key, slip.Key)
	assert.Equal(t, payroll.PayslipStatusPendingReview, slip.Status)
	assert.True(t, slip.BaseSalary.Equal(decimal.NewFromInt(15000)))
	assert.True(t, slip.NetSalary.Equal(decimal.RequireFromString("12317.31")),
		"got %s", slip.NetSalary)
	assert.Equal(t, 9, slip.Counters.Present)
	assert.Equal(t, 20, slip.Counters.LateMinutes)
	assert.True(t, slip.Counters.AbsentUnits.Equal(decimal.NewFromInt(2)))
}

func TestAssemblePayslip_NoDeductions(t *testing.T) {
	t.Parallel()

	emp := testEmployee()
	key := payroll.PeriodKey{Year: 2024, Month: 1, Period: 2}

	slip := AssemblePayslip(emp, key, PeriodSummary{AbsentUnits: decimal.Zero}, nil)

	assert.True(t, slip.NetSalary.Equal(slip.BaseSalary))
	assert.Empty(t, slip.Deductions)
	assert.True(t, slip.TotalDeductions().IsZero())
}

func TestPayslipTotalDeductions(t *testing.T) {
	t.Parallel()

	slip := payroll.Payslip{Deductions: []payroll.DeductionLine{
		{Name: DeductionAbsence, Amount: decimal.RequireFromString("2307.69")},
		{Name: DeductionWithholdingTax, Amount: decimal.RequireFromString("450.00")},
	}}

	assert.True(t, slip.TotalDeductions().Equal(decimal.RequireFromString("2757.69")))
}
