package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/pkg/validator"
)

// ========== REQUESTS ==========

type PeriodRequest struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Period int `json:"period"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Period != 1 && r.Period != 2 {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be 1 or 2"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *PeriodRequest) Key() PeriodKey {
	return PeriodKey{Year: r.Year, Month: r.Month, Period: r.Period}
}

type DecisionRequest struct {
	Decision string  `json:"decision"` // "accepted" or "rejected"
	Note     *string `json:"note,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Decision != string(PayslipStatusAccepted) && r.Decision != string(PayslipStatusRejected) {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "must be 'accepted' or 'rejected'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSES ==========

type PayslipResponse struct {
	ID              string             `json:"id"`
	RunID           string             `json:"run_id,omitempty"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    string             `json:"employee_name"`
	Year            int                `json:"year"`
	Month           int                `json:"month"`
	Period          int                `json:"period"`
	BaseSalary      decimal.Decimal    `json:"base_salary"`
	Deductions      []DeductionLine    `json:"deductions"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	NetSalary       decimal.Decimal    `json:"net_salary"`
	Counters        AttendanceCounters `json:"counters"`
	Status          string             `json:"status"`
	HRNote          *string            `json:"hr_note,omitempty"`
	SentAt          *string            `json:"sent_at,omitempty"`
}

type RunResponse struct {
	ID       string            `json:"id"`
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Period   int               `json:"period"`
	Status   string            `json:"status"`
	SentAt   *string           `json:"sent_at,omitempty"`
	Payslips []PayslipResponse `json:"payslips,omitempty"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:              p.ID,
		RunID:           p.RunID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    p.EmployeeName,
		Year:            p.Key.Year,
		Month:           p.Key.Month,
		Period:          p.Key.Period,
		BaseSalary:      p.BaseSalary,
		Deductions:      p.Deductions,
		TotalDeductions: p.TotalDeductions(),
		NetSalary:       p.NetSalary,
		Counters:        p.Counters,
		Status:          string(p.Status),
		HRNote:          p.HRNote,
		SentAt:          formatTimePtr(p.SentAt),
	}
}

func ToPayslipResponses(payslips []Payslip) []PayslipResponse {
	result := make([]PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		result = append(result, ToPayslipResponse(p))
	}
	return result
}

func ToRunResponse(run PayrollRun, payslips []Payslip) RunResponse {
	return RunResponse{
		ID:       run.ID,
		Year:     run.Key.Year,
		Month:    run.Key.Month,
		Period:   run.Key.Period,
		Status:   string(run.Status),
		SentAt:   formatTimePtr(run.SentAt),
		Payslips: ToPayslipResponses(payslips),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
