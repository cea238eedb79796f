package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/attendance"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/domain/leave"
)

type DayStatus string

const (
	DayFuture     DayStatus = "future"
	DayNotStarted DayStatus = "not_started"
	DayEnded      DayStatus = "ended"
	DaySuspended  DayStatus = "suspended"
	DayHoliday    DayStatus = "holiday"
	DayWeekend    DayStatus = "weekend"
	DayLeave      DayStatus = "leave"
	DayAbsent     DayStatus = "absent"
	DayLate       DayStatus = "late"
	DayPresent    DayStatus = "present"
	DayNoData     DayStatus = "no_data"
)

var (
	halfUnit = decimal.New(5, -1) // 0.5
	fullUnit = decimal.NewFromInt(1)
)

// ClassifyInput carries everything the classifier needs for one employee and
// one calendar day. Now is the evaluation timestamp, injected by the caller;
// the classifier never reads the clock itself.
type ClassifyInput struct {
	Employee   employee.Employee
	Day        time.Time // midnight of the calendar day
	Policy     Policy
	Holidays   map[string]string // date key -> holiday name
	Leaves     []leave.LeaveRequest
	Events     []attendance.Event
	Adjustment *attendance.Adjustment
	Now        time.Time
}

type DayResult struct {
	Status        DayStatus
	LeaveType     leave.LeaveType
	LateMinutes   int
	AbsentUnits   decimal.Decimal
	WorkedMinutes int
	// ReviewNeeded flags a clock-in without a matching clock-out on a day
	// already in the past, so HR can adjust before creating the run.
	ReviewNeeded bool
}

// classifyRule is one entry of the decision table. First match wins; the
// order of classifyRules is part of the contract (a date that is both a
// holiday and a weekend day classifies as holiday).
type classifyRule struct {
	name  string
	apply func(ClassifyInput) (DayResult, bool)
}

var classifyRules = []classifyRule{
	{"future", ruleFuture},
	{"not-started", ruleNotStarted},
	{"ended", ruleEnded},
	{"suspended", ruleSuspended},
	{"holiday", ruleHoliday},
	{"weekend", ruleWeekend},
	{"leave", ruleLeave},
	{"attendance", ruleAttendance},
}

// ClassifyDay decides the day's category and, when attendance applies,
// lateness minutes, worked duration and absence units.
func ClassifyDay(in ClassifyInput) DayResult {
	for _, rule := range classifyRules {
		if result, ok := rule.apply(in); ok {
			return result
		}
	}
	return DayResult{Status: DayNoData}
}

func ruleFuture(in ClassifyInput) (DayResult, bool) {
	if in.Day.After(dateOf(in.Now)) {
		return DayResult{Status: DayFuture}, true
	}
	return DayResult{}, false
}

func ruleNotStarted(in ClassifyInput) (DayResult, bool) {
	if in.Day.Before(dateOf(in.Employee.StartDate)) {
		return DayResult{Status: DayNotStarted}, true
	}
	return DayResult{}, false
}

func ruleEnded(in ClassifyInput) (DayResult, bool) {
	if in.Employee.EndDate != nil && in.Day.After(dateOf(*in.Employee.EndDate)) {
		return DayResult{Status: DayEnded}, true
	}
	return DayResult{}, false
}

func ruleSuspended(in ClassifyInput) (DayResult, bool) {
	if in.Employee.EmploymentStatus == employee.EmploymentStatusSuspended {
		return DayResult{Status: DaySuspended}, true
	}
	return DayResult{}, false
}

func ruleHoliday(in ClassifyInput) (DayResult, bool) {
	if _, ok := in.Holidays[DateKey(in.Day)]; ok {
		return DayResult{Status: DayHoliday}, true
	}
	return DayResult{}, false
}

func ruleWeekend(in ClassifyInput) (DayResult, bool) {
	if in.Policy.IsWeekend(in.Day) {
		return DayResult{Status: DayWeekend}, true
	}
	return DayResult{}, false
}

func ruleLeave(in ClassifyInput) (DayResult, bool) {
	for _, lr := range in.Leaves {
		if lr.Status == leave.RequestStatusApproved && lr.Covers(in.Day) {
			return DayResult{Status: DayLeave, LeaveType: lr.Type}, true
		}
	}
	return DayResult{}, false
}

// ruleAttendance is the terminal rule; it always matches.
func ruleAttendance(in ClassifyInput) (DayResult, bool) {
	firstIn, lastOut := resolveClockTimes(in.Events, in.Adjustment)

	if firstIn == nil {
		if pastEvaluationPoint(in) {
			return DayResult{Status: DayAbsent, AbsentUnits: fullUnit}, true
		}
		return DayResult{Status: DayNoData}, true
	}

	if lastOut == nil && dayFullyPast(in) {
		return DayResult{Status: DayNoData, ReviewNeeded: true}, true
	}

	result := DayResult{}
	inMinutes := minutesIntoDay(*firstIn)

	// Half-day absence from clock-in time: morning unit past the absent
	// cutoff, afternoon unit past the half-day cutoff.
	units := decimal.Zero
	if inMinutes > in.Policy.AbsentCutoffMinutes {
		units = units.Add(halfUnit)
	}
	if inMinutes > in.Policy.HalfDayCutoffMinutes {
		units = units.Add(halfUnit)
	}
	if in.Policy.EarlyLeaveHalfDay && lastOut != nil &&
		minutesIntoDay(*lastOut) < in.Policy.HalfDayCutoffMinutes &&
		inMinutes <= in.Policy.HalfDayCutoffMinutes {
		units = units.Add(halfUnit)
	}

	if lastOut != nil && lastOut.After(*firstIn) {
		result.WorkedMinutes = int(lastOut.Sub(*firstIn).Minutes())
	}

	if units.IsPositive() {
		// A half-day already charged as absent is never also counted late.
		result.Status = DayAbsent
		result.AbsentUnits = units
		return result, true
	}

	late := inMinutes - (in.Policy.WorkStartMinutes + in.Policy.GraceMinutes)
	if late < 0 {
		late = 0
	}
	if in.Adjustment != nil && in.Adjustment.Kind == attendance.AdjustmentForgiveLate {
		late = 0
	}

	result.LateMinutes = late
	if late > 0 {
		result.Status = DayLate
	} else {
		result.Status = DayPresent
	}
	return result, true
}

// resolveClockTimes picks the earliest in and latest out from the raw events,
// then lets an add-record adjustment override each side independently. An
// adjustment carrying only a corrected clock-in leaves the clock-out sourced
// from the raw events.
func resolveClockTimes(events []attendance.Event, adj *attendance.Adjustment) (firstIn, lastOut *time.Time) {
	for i := range events {
		ev := events[i]
		switch ev.Direction {
		case attendance.DirectionIn:
			if firstIn == nil || ev.Timestamp.Before(*firstIn) {
				firstIn = &events[i].Timestamp
			}
		case attendance.DirectionOut:
			if lastOut == nil || ev.Timestamp.After(*lastOut) {
				lastOut = &events[i].Timestamp
			}
		}
	}

	if adj != nil && adj.Kind == attendance.AdjustmentAddRecord {
		if adj.AdjustedIn != nil {
			firstIn = adj.AdjustedIn
		}
		if adj.AdjustedOut != nil {
			lastOut = adj.AdjustedOut
		}
	}
	return firstIn, lastOut
}

// pastEvaluationPoint reports whether the day can already be judged absent:
// either the day is fully behind us, or it is today and the evaluation
// timestamp has passed the afternoon boundary.
func pastEvaluationPoint(in ClassifyInput) bool {
	if dayFullyPast(in) {
		return true
	}
	if dateOf(in.Now).Equal(in.Day) {
		return minutesIntoDay(in.Now) >= in.Policy.HalfDayCutoffMinutes
	}
	return false
}

func dayFullyPast(in ClassifyInput) bool {
	return dateOf(in.Now).After(in.Day)
}

// DateKey formats a day as the canonical map key for holiday and attendance
// lookups.
func DateKey(day time.Time) string {
	return day.Format("2006-01-02")
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func minutesIntoDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
