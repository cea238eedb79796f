package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
)

// Defaults applied by ResolvePolicy when the raw settings record leaves a
// field unset. Statutory deductions (SSO, withholding) deliberately have no
// default rate: absence of explicit enablement means "do not deduct".
const (
	defaultWorkStart     = "08:00"
	defaultAbsentCutoff  = "09:00"
	defaultHalfDayCutoff = "13:00"

	defaultPeriod1StartDay = 1
	defaultPeriod1EndDay   = 15
	defaultPeriod2StartDay = 16
	defaultBaseDays        = 26
)

// Policy is the fully-resolved parameter set for one calculation pass. Every
// field is populated; the engine never checks for presence again. Clock
// boundaries are minutes from midnight.
type Policy struct {
	WorkStartMinutes     int
	GraceMinutes         int
	AbsentCutoffMinutes  int
	HalfDayCutoffMinutes int
	Weekend              policy.WeekendRule

	Period1StartDay int
	Period1EndDay   int
	Period2StartDay int

	BaseDays   decimal.Decimal
	LeaveRules map[string]policy.LeaveRule

	SSOEnabled        bool
	SSOPercent        decimal.Decimal
	SSOMonthlyWageCap decimal.Decimal // zero means no cap

	WithholdingEnabled bool
	WithholdingPercent decimal.Decimal

	// EarlyLeaveHalfDay charges the afternoon half-unit when the employee
	// clocks out before the afternoon boundary. Off unless HR enables it.
	EarlyLeaveHalfDay bool
}

// ResolvePolicy normalizes a raw settings record into a Policy. Pure
// defaulting, no error conditions.
func ResolvePolicy(raw policy.Settings) Policy {
	p := Policy{
		WorkStartMinutes:     clockMinutes(raw.WorkStartTime, defaultWorkStart),
		GraceMinutes:         intOr(raw.GraceMinutes, 0),
		AbsentCutoffMinutes:  clockMinutes(raw.AbsentCutoffTime, defaultAbsentCutoff),
		HalfDayCutoffMinutes: clockMinutes(raw.HalfDayCutoffTime, defaultHalfDayCutoff),
		Weekend:              policy.WeekendSatSun,
		Period1StartDay:      intOr(raw.Period1StartDay, defaultPeriod1StartDay),
		Period1EndDay:        intOr(raw.Period1EndDay, defaultPeriod1EndDay),
		Period2StartDay:      intOr(raw.Period2StartDay, defaultPeriod2StartDay),
		BaseDays:             decimal.NewFromInt(int64(intOr(raw.DeductionBaseDays, defaultBaseDays))),
		LeaveRules:           raw.LeaveRules,
		SSOPercent:           decimal.Zero,
		SSOMonthlyWageCap:    decimal.Zero,
		WithholdingPercent:   decimal.Zero,
	}

	if raw.Weekend != nil {
		p.Weekend = *raw.Weekend
	}
	if p.LeaveRules == nil {
		p.LeaveRules = map[string]policy.LeaveRule{}
	}

	if raw.SSOEnabled != nil && *raw.SSOEnabled && raw.SSOPercent != nil {
		p.SSOEnabled = true
		p.SSOPercent = *raw.SSOPercent
		if raw.SSOMonthlyWageCap != nil {
			p.SSOMonthlyWageCap = *raw.SSOMonthlyWageCap
		}
	}
	if raw.WithholdingEnabled != nil && *raw.WithholdingEnabled && raw.WithholdingPercent != nil {
		p.WithholdingEnabled = true
		p.WithholdingPercent = *raw.WithholdingPercent
	}
	if raw.EarlyLeaveHalfDay != nil {
		p.EarlyLeaveHalfDay = *raw.EarlyLeaveHalfDay
	}

	return p
}

// LeaveRuleFor returns the over-limit handling for a leave type. Types
// without an explicit rule are not deducted.
func (p Policy) LeaveRuleFor(leaveType string) policy.LeaveRule {
	if rule, ok := p.LeaveRules[leaveType]; ok {
		return rule
	}
	return policy.LeaveRule{Handling: policy.OverLimitNone}
}

// LeaveBaseDays resolves the daily-rate divisor for an over-limit rule,
// falling back to the company-wide base days.
func (p Policy) LeaveBaseDays(rule policy.LeaveRule) decimal.Decimal {
	if rule.BaseDays > 0 {
		return decimal.NewFromInt(int64(rule.BaseDays))
	}
	return p.BaseDays
}

// PeriodRange resolves a period key to its inclusive [start, end] dates.
// Period 1 spans the configured start/end days; period 2 runs from its start
// day to the last day of the month.
func (p Policy) PeriodRange(key payroll.PeriodKey) (time.Time, time.Time) {
	month := time.Month(key.Month)
	if key.Period == 1 {
		start := time.Date(key.Year, month, p.Period1StartDay, 0, 0, 0, 0, time.UTC)
		end := time.Date(key.Year, month, p.Period1EndDay, 0, 0, 0, 0, time.UTC)
		return start, end
	}
	start := time.Date(key.Year, month, p.Period2StartDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(key.Year, month+1, 0, 0, 0, 0, 0, time.UTC) // day 0 of next month
	return start, end
}

// IsWeekend applies the resolved weekend rule to a calendar day.
func (p Policy) IsWeekend(day time.Time) bool {
	switch day.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		return p.Weekend == policy.WeekendSatSun
	default:
		return false
	}
}

func clockMinutes(raw *string, fallback string) int {
	value := fallback
	if raw != nil && *raw != "" {
		value = *raw
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		t, _ = time.Parse("15:04", fallback)
	}
	return t.Hour()*60 + t.Minute()
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
