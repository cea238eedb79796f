package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePolicy_Defaults(t *testing.T) {
	t.Parallel()

	p := ResolvePolicy(policy.Settings{})

	assert.Equal(t, 8*60, p.WorkStartMinutes)
	assert.Equal(t, 0, p.GraceMinutes)
	assert.Equal(t, 9*60, p.AbsentCutoffMinutes)
	assert.Equal(t, 13*60, p.HalfDayCutoffMinutes)
	assert.Equal(t, policy.WeekendSatSun, p.Weekend)
	assert.Equal(t, 1, p.Period1StartDay)
	assert.Equal(t, 15, p.Period1EndDay)
	assert.Equal(t, 16, p.Period2StartDay)
	assert.True(t, p.BaseDays.Equal(decimal.NewFromInt(26)))
	assert.False(t, p.SSOEnabled)
	assert.False(t, p.WithholdingEnabled)
	assert.False(t, p.EarlyLeaveHalfDay)
	assert.NotNil(t, p.LeaveRules)
}

func TestResolvePolicy_ExplicitValues(t *testing.T) {
	t.Parallel()

	workStart := "09:30"
	grace := 15
	weekend := policy.WeekendSunOnly
	baseDays := 30
	enabled := true
	ssoPercent := decimal.RequireFromString("0.05")
	ssoCap := decimal.NewFromInt(15000)
	whPercent := decimal.RequireFromString("0.03")

	p := ResolvePolicy(policy.Settings{
		WorkStartTime:      &workStart,
		GraceMinutes:       &grace,
		Weekend:            &weekend,
		DeductionBaseDays:  &baseDays,
		SSOEnabled:         &enabled,
		SSOPercent:         &ssoPercent,
		SSOMonthlyWageCap:  &ssoCap,
		WithholdingEnabled: &enabled,
		WithholdingPercent: &whPercent,
		LeaveRules: map[string]policy.LeaveRule{
			"sick": {Handling: policy.OverLimitDeductSalary, BaseDays: 30},
		},
	})

	assert.Equal(t, 9*60+30, p.WorkStartMinutes)
	assert.Equal(t, 15, p.GraceMinutes)
	assert.Equal(t, policy.WeekendSunOnly, p.Weekend)
	assert.True(t, p.BaseDays.Equal(decimal.NewFromInt(30)))
	assert.True(t, p.SSOEnabled)
	assert.True(t, p.SSOPercent.Equal(ssoPercent))
	assert.True(t, p.SSOMonthlyWageCap.Equal(ssoCap))
	assert.True(t, p.WithholdingEnabled)
	assert.True(t, p.WithholdingPercent.Equal(whPercent))

	rule := p.LeaveRuleFor("sick")
	assert.Equal(t, policy.OverLimitDeductSalary, rule.Handling)
	assert.True(t, p.LeaveBaseDays(rule).Equal(decimal.NewFromInt(30)))
}

func TestResolvePolicy_SSOEnabledWithoutRateStaysOff(t *testing.T) {
	t.Parallel()

	// Enablement without an explicit rate must never guess one.
	enabled := true
	p := ResolvePolicy(policy.Settings{SSOEnabled: &enabled})

	assert.False(t, p.SSOEnabled)
	assert.True(t, p.SSOPercent.IsZero())
}

func TestPolicy_PeriodRange(t *testing.T) {
	t.Parallel()

	p := ResolvePolicy(policy.Settings{})

	start, end := p.PeriodRange(payroll.PeriodKey{Year: 2024, Month: 1, Period: 1})
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), end)

	start, end = p.PeriodRange(payroll.PeriodKey{Year: 2024, Month: 2, Period: 2})
	assert.Equal(t, time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC), start)
	// 2024 is a leap year
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestPolicy_IsWeekend(t *testing.T) {
	t.Parallel()

	saturday := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	satSun := ResolvePolicy(policy.Settings{})
	require.Equal(t, policy.WeekendSatSun, satSun.Weekend)
	assert.True(t, satSun.IsWeekend(saturday))
	assert.True(t, satSun.IsWeekend(sunday))
	assert.False(t, satSun.IsWeekend(monday))

	weekend := policy.WeekendSunOnly
	sunOnly := ResolvePolicy(policy.Settings{Weekend: &weekend})
	assert.False(t, sunOnly.IsWeekend(saturday))
	assert.True(t, sunOnly.IsWeekend(sunday))
}

func TestResolvePolicy_UnknownLeaveTypeIsNotDeducted(t *testing.T) {
	t.Parallel()

	p := ResolvePolicy(policy.Settings{})
	rule := p.LeaveRuleFor("vacation")
	assert.Equal(t, policy.OverLimitNone, rule.Handling)
}
