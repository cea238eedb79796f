package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

type WeekendRule string

const (
	WeekendSatSun  WeekendRule = "sat_sun"
	WeekendSunOnly WeekendRule = "sun_only"
)

type OverLimitHandling string

const (
	// OverLimitDeductSalary deducts the over-limit days from salary at the
	// rule's own base-days divisor.
	OverLimitDeductSalary OverLimitHandling = "deduct_salary"
	OverLimitNone         OverLimitHandling = "none"
)

// LeaveRule is the per-leave-type over-limit handling.
type LeaveRule struct {
	Handling OverLimitHandling `json:"handling"`
	// BaseDays is the divisor for the daily rate; zero falls back to the
	// company-wide deduction base days.
	BaseDays int `json:"base_days,omitempty"`
}

// Settings is the raw HR policy record as persisted. Ad-hoc fields are
// nullable; the payroll engine never consumes this directly, only the resolved
// Policy value built from it.
type Settings struct {
	ID string

	WorkStartTime      *string // "08:00"
	GraceMinutes       *int
	AbsentCutoffTime   *string // "09:00"
	HalfDayCutoffTime  *string // "13:00", afternoon boundary
	Weekend            *WeekendRule
	Period1StartDay    *int
	Period1EndDay      *int
	Period2StartDay    *int
	DeductionBaseDays  *int
	LeaveRules         map[string]LeaveRule
	SSOEnabled         *bool
	SSOPercent         *decimal.Decimal // 0.05 means 5%
	SSOMonthlyWageCap  *decimal.Decimal
	WithholdingEnabled *bool
	WithholdingPercent *decimal.Decimal
	EarlyLeaveHalfDay  *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
