package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/attendance"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/domain/leave"
)

// PeriodSummary holds the attendance aggregates for one employee over one
// pay period.
type PeriodSummary struct {
	Present      int
	Late         int
	LateMinutes  int
	LeaveDays    int
	AbsentUnits  decimal.Decimal
	ReviewNeeded bool
	Notes        []string
}

// PeriodInput is the read-only snapshot AggregatePeriod folds over. Events
// and adjustments are keyed by employee id, then by DateKey.
type PeriodInput struct {
	Policy      Policy
	PeriodStart time.Time
	PeriodEnd   time.Time
	Holidays    map[string]string
	Leaves      map[string][]leave.LeaveRequest
	Events      map[string]map[string][]attendance.Event
	Adjustments map[string]map[string]*attendance.Adjustment
	Now         time.Time
}

// AggregatePeriod classifies every calendar day of the period for one
// employee and accumulates the counters. Pure reduction, no side effects.
func AggregatePeriod(emp employee.Employee, in PeriodInput) PeriodSummary {
	summary := PeriodSummary{AbsentUnits: decimal.Zero}

	if emp.PayType == employee.PayTypeMonthlyNoAttendance {
		summary.Notes = append(summary.Notes, "attendance not tracked for this pay type")
		return summary
	}

	empEvents := in.Events[emp.ID]
	empAdjustments := in.Adjustments[emp.ID]

	for day := in.PeriodStart; !day.After(in.PeriodEnd); day = day.AddDate(0, 0, 1) {
		key := DateKey(day)
		result := ClassifyDay(ClassifyInput{
			Employee:   emp,
			Day:        day,
			Policy:     in.Policy,
			Holidays:   in.Holidays,
			Leaves:     in.Leaves[emp.ID],
			Events:     empEvents[key],
			Adjustment: empAdjustments[key],
			Now:        in.Now,
		})

		switch result.Status {
		case DayPresent:
			summary.Present++
		case DayLate:
			summary.Late++
			summary.LateMinutes += result.LateMinutes
		case DayAbsent:
			summary.AbsentUnits = summary.AbsentUnits.Add(result.AbsentUnits)
		case DayLeave:
			summary.LeaveDays++
		}

		if result.ReviewNeeded {
			summary.ReviewNeeded = true
			summary.Notes = append(summary.Notes, fmt.Sprintf("missing clock-out on %s", key))
		}
	}

	return summary
}
