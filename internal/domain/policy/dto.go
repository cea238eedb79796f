package policy

import (
	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/pkg/validator"
)

type SettingsResponse struct {
	ID                 string               `json:"id"`
	WorkStartTime      *string              `json:"work_start_time,omitempty"`
	GraceMinutes       *int                 `json:"grace_minutes,omitempty"`
	AbsentCutoffTime   *string              `json:"absent_cutoff_time,omitempty"`
	HalfDayCutoffTime  *string              `json:"half_day_cutoff_time,omitempty"`
	Weekend            *WeekendRule         `json:"weekend,omitempty"`
	Period1StartDay    *int                 `json:"period1_start_day,omitempty"`
	Period1EndDay      *int                 `json:"period1_end_day,omitempty"`
	Period2StartDay    *int                 `json:"period2_start_day,omitempty"`
	DeductionBaseDays  *int                 `json:"deduction_base_days,omitempty"`
	LeaveRules         map[string]LeaveRule `json:"leave_rules,omitempty"`
	SSOEnabled         *bool                `json:"sso_enabled,omitempty"`
	SSOPercent         *decimal.Decimal     `json:"sso_percent,omitempty"`
	SSOMonthlyWageCap  *decimal.Decimal     `json:"sso_monthly_wage_cap,omitempty"`
	WithholdingEnabled *bool                `json:"withholding_enabled,omitempty"`
	WithholdingPercent *decimal.Decimal     `json:"withholding_percent,omitempty"`
	EarlyLeaveHalfDay  *bool                `json:"early_leave_half_day,omitempty"`
}

type UpdateSettingsRequest struct {
	WorkStartTime      *string              `json:"work_start_time,omitempty"`
	GraceMinutes       *int                 `json:"grace_minutes,omitempty"`
	AbsentCutoffTime   *string              `json:"absent_cutoff_time,omitempty"`
	HalfDayCutoffTime  *string              `json:"half_day_cutoff_time,omitempty"`
	Weekend            *WeekendRule         `json:"weekend,omitempty"`
	Period1StartDay    *int                 `json:"period1_start_day,omitempty"`
	Period1EndDay      *int                 `json:"period1_end_day,omitempty"`
	Period2StartDay    *int                 `json:"period2_start_day,omitempty"`
	DeductionBaseDays  *int                 `json:"deduction_base_days,omitempty"`
	LeaveRules         map[string]LeaveRule `json:"leave_rules,omitempty"`
	SSOEnabled         *bool                `json:"sso_enabled,omitempty"`
	SSOPercent         *decimal.Decimal     `json:"sso_percent,omitempty"`
	SSOMonthlyWageCap  *decimal.Decimal     `json:"sso_monthly_wage_cap,omitempty"`
	WithholdingEnabled *bool                `json:"withholding_enabled,omitempty"`
	WithholdingPercent *decimal.Decimal     `json:"withholding_percent,omitempty"`
	EarlyLeaveHalfDay  *bool                `json:"early_leave_half_day,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkStartTime != nil && !validator.IsValidClockTime(*r.WorkStartTime) {
		errs = append(errs, validator.ValidationError{Field: "work_start_time", Message: "must be HH:MM"})
	}
	if r.AbsentCutoffTime != nil && !validator.IsValidClockTime(*r.AbsentCutoffTime) {
		errs = append(errs, validator.ValidationError{Field: "absent_cutoff_time", Message: "must be HH:MM"})
	}
	if r.HalfDayCutoffTime != nil && !validator.IsValidClockTime(*r.HalfDayCutoffTime) {
		errs = append(errs, validator.ValidationError{Field: "half_day_cutoff_time", Message: "must be HH:MM"})
	}
	if r.GraceMinutes != nil && *r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_minutes", Message: "must be non-negative"})
	}
	if r.Weekend != nil && *r.Weekend != WeekendSatSun && *r.Weekend != WeekendSunOnly {
		errs = append(errs, validator.ValidationError{Field: "weekend", Message: "must be 'sat_sun' or 'sun_only'"})
	}
	if r.Period1StartDay != nil && (*r.Period1StartDay < 1 || *r.Period1StartDay > 28) {
		errs = append(errs, validator.ValidationError{Field: "period1_start_day", Message: "must be between 1 and 28"})
	}
	if r.Period1EndDay != nil && (*r.Period1EndDay < 1 || *r.Period1EndDay > 28) {
		errs = append(errs, validator.ValidationError{Field: "period1_end_day", Message: "must be between 1 and 28"})
	}
	if r.Period2StartDay != nil && (*r.Period2StartDay < 2 || *r.Period2StartDay > 28) {
		errs = append(errs, validator.ValidationError{Field: "period2_start_day", Message: "must be between 2 and 28"})
	}
	if r.DeductionBaseDays != nil && *r.DeductionBaseDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "deduction_base_days", Message: "must be positive"})
	}
	if r.SSOPercent != nil && (r.SSOPercent.IsNegative() || r.SSOPercent.GreaterThan(decimal.NewFromInt(1))) {
		errs = append(errs, validator.ValidationError{Field: "sso_percent", Message: "must be between 0 and 1"})
	}
	if r.SSOMonthlyWageCap != nil && r.SSOMonthlyWageCap.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "sso_monthly_wage_cap", Message: "must be non-negative"})
	}
	if r.WithholdingPercent != nil && (r.WithholdingPercent.IsNegative() || r.WithholdingPercent.GreaterThan(decimal.NewFromInt(1))) {
		errs = append(errs, validator.ValidationError{Field: "withholding_percent", Message: "must be between 0 and 1"})
	}
	for name, rule := range r.LeaveRules {
		if rule.Handling != OverLimitDeductSalary && rule.Handling != OverLimitNone {
			errs = append(errs, validator.ValidationError{Field: "leave_rules." + name, Message: "handling must be 'deduct_salary' or 'none'"})
		}
		if rule.BaseDays < 0 {
			errs = append(errs, validator.ValidationError{Field: "leave_rules." + name, Message: "base_days must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func ToSettingsResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		ID:                 s.ID,
		WorkStartTime:      s.WorkStartTime,
		GraceMinutes:       s.GraceMinutes,
		AbsentCutoffTime:   s.AbsentCutoffTime,
		HalfDayCutoffTime:  s.HalfDayCutoffTime,
		Weekend:            s.Weekend,
		Period1StartDay:    s.Period1StartDay,
		Period1EndDay:      s.Period1EndDay,
		Period2StartDay:    s.Period2StartDay,
		DeductionBaseDays:  s.DeductionBaseDays,
		LeaveRules:         s.LeaveRules,
		SSOEnabled:         s.SSOEnabled,
		SSOPercent:         s.SSOPercent,
		SSOMonthlyWageCap:  s.SSOMonthlyWageCap,
		WithholdingEnabled: s.WithholdingEnabled,
		WithholdingPercent: s.WithholdingPercent,
		EarlyLeaveHalfDay:  s.EarlyLeaveHalfDay,
	}
}
