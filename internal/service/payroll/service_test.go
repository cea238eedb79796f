package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siamhr/payroll-backend-go/internal/domain/attendance"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/domain/holiday"
	"github.com/siamhr/payroll-backend-go/internal/domain/leave"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
	"github.com/siamhr/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTxManager runs the function directly; the serializable-retry machinery
// is exercised against a real database, not here.
type fakeTxManager struct{}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayrollRepo struct {
	runs     map[string]payroll.PayrollRun
	payslips map[string]payroll.Payslip
	creates  int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		runs:     map[string]payroll.PayrollRun{},
		payslips: map[string]payroll.Payslip{},
	}
}

func (r *fakePayrollRepo) GetRunByKey(_ context.Context, key payroll.PeriodKey) (payroll.PayrollRun, error) {
	for _, run := range r.runs {
		if run.Key == key {
			return run, nil
		}
	}
	return payroll.PayrollRun{}, payroll.ErrRunNotFound
}

func (r *fakePayrollRepo) GetRunByID(_ context.Context, id string) (payroll.PayrollRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (r *fakePayrollRepo) CreateRun(_ context.Context, run payroll.PayrollRun, payslips []payroll.Payslip) (payroll.PayrollRun, error) {
	for _, existing := range r.runs {
		if existing.Key == run.Key {
			return payroll.PayrollRun{}, payroll.ErrRunAlreadyExists
		}
	}
	r.creates++
	run.CreatedAt = time.Now()
	r.runs[run.ID] = run
	for _, p := range payslips {
		p.RunID = run.ID
		r.payslips[p.ID] = p
	}
	return run, nil
}

func (r *fakePayrollRepo) GetPayslipsByRunID(_ context.Context, runID string) ([]payroll.Payslip, error) {
	var result []payroll.Payslip
	for _, p := range r.payslips {
		if p.RunID == runID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePayrollRepo) GetPayslipByID(_ context.Context, id string) (payroll.Payslip, error) {
	p, ok := r.payslips[id]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (r *fakePayrollRepo) MarkRunSent(_ context.Context, runID string, sentAt time.Time) error {
	run, ok := r.runs[runID]
	if !ok {
		return payroll.ErrRunNotFound
	}
	run.Status = payroll.RunStatusSentToEmployee
	run.SentAt = &sentAt
	r.runs[runID] = run
	for id, p := range r.payslips {
		if p.RunID == runID {
			p.SentAt = &sentAt
			r.payslips[id] = p
		}
	}
	return nil
}

func (r *fakePayrollRepo) MarkRunFinal(_ context.Context, runID string) error {
	run, ok := r.runs[runID]
	if !ok {
		return payroll.ErrRunNotFound
	}
	run.Status = payroll.RunStatusFinal
	r.runs[runID] = run
	return nil
}

func (r *fakePayrollRepo) UpdatePayslipDecision(_ context.Context, payslipID string, status payroll.PayslipStatus, note *string) error {
	p, ok := r.payslips[payslipID]
	if !ok {
		return payroll.ErrPayslipNotFound
	}
	p.Status = status
	p.HRNote = note
	r.payslips[payslipID] = p
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetPayable(_ context.Context) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range r.employees {
		if e.Payable() {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeAttendanceRepo struct {
	events      []attendance.Event
	adjustments []attendance.Adjustment
}

func (r *fakeAttendanceRepo) GetEventsInRange(_ context.Context, from, to time.Time) ([]attendance.Event, error) {
	var result []attendance.Event
	for _, ev := range r.events {
		if !ev.Timestamp.Before(from) && ev.Timestamp.Before(to) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (r *fakeAttendanceRepo) GetAdjustmentsInRange(_ context.Context, from, to time.Time) ([]attendance.Adjustment, error) {
	var result []attendance.Adjustment
	for _, adj := range r.adjustments {
		if !adj.Date.Before(from) && !adj.Date.After(to) {
			result = append(result, adj)
		}
	}
	return result, nil
}

type fakeLeaveRepo struct {
	requests []leave.LeaveRequest
}

func (r *fakeLeaveRepo) GetApprovedInRange(_ context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, lr := range r.requests {
		if lr.Status == leave.RequestStatusApproved && !lr.EndDate.Before(from) && !lr.StartDate.After(to) {
			result = append(result, lr)
		}
	}
	return result, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (r *fakeHolidayRepo) GetInRange(_ context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var result []holiday.Holiday
	for _, h := range r.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			result = append(result, h)
		}
	}
	return result, nil
}

type fakeSettingsRepo struct {
	settings *policy.Settings
}

func (r *fakeSettingsRepo) GetActive(_ context.Context) (policy.Settings, error) {
	if r.settings == nil {
		return policy.Settings{}, policy.ErrSettingsNotFound
	}
	return *r.settings, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, settings policy.Settings) (policy.Settings, error) {
	r.settings = &settings
	return settings, nil
}

type serviceFixture struct {
	service     payroll.PayrollService
	payrollRepo *fakePayrollRepo
	employees   *fakeEmployeeRepo
	attendance  *fakeAttendanceRepo
	leaves      *fakeLeaveRepo
	settings    *fakeSettingsRepo
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	salary := decimal.NewFromInt(30000)
	zero := decimal.Zero
	f := &serviceFixture{
		payrollRepo: newFakePayrollRepo(),
		employees: &fakeEmployeeRepo{employees: []employee.Employee{
			{
				ID:               "emp-1",
				FullName:         "Somchai",
				EmploymentStatus: employee.EmploymentStatusActive,
				PayType:          employee.PayTypeMonthly,
				MonthlySalary:    &salary,
				StartDate:        date(2023, 1, 1),
			},
			{
				ID:               "emp-2",
				FullName:         "Malee",
				EmploymentStatus: employee.EmploymentStatusActive,
				PayType:          employee.PayTypeMonthlyNoAttendance,
				MonthlySalary:    &salary,
				StartDate:        date(2023, 1, 1),
			},
			// Gets no payslip: unpaid contractors are outside payroll.
			{
				ID:               "emp-3",
				FullName:         "Anan",
				EmploymentStatus: employee.EmploymentStatusActive,
				PayType:          employee.PayTypeUnpaid,
				StartDate:        date(2023, 1, 1),
			},
			// Gets no payslip: salary never recorded.
			{
				ID:               "emp-4",
				FullName:         "Ploy",
				EmploymentStatus: employee.EmploymentStatusActive,
				PayType:          employee.PayTypeMonthly,
				MonthlySalary:    &zero,
				StartDate:        date(2023, 1, 1),
			},
		}},
		attendance: &fakeAttendanceRepo{},
		leaves:     &fakeLeaveRepo{},
		settings:   &fakeSettingsRepo{settings: &policy.Settings{}},
	}

	svc := NewPayrollService(
		fakeTxManager{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		f.payrollRepo,
		f.employees,
		f.attendance,
		f.leaves,
		&fakeHolidayRepo{},
		f.settings,
	)
	impl := svc.(*PayrollServiceImpl)
	impl.now = func() time.Time { return clock(date(2024, 2, 1), 12, 0) }
	f.service = svc
	return f
}

func periodRequest() payroll.PeriodRequest {
	return payroll.PeriodRequest{Year: 2024, Month: 1, Period: 1}
}

func TestComputeDraft_ReturnsPayslipsWithoutPersisting(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	payslips, err := f.service.ComputeDraft(context.Background(), periodRequest())
	require.NoError(t, err)

	assert.Len(t, payslips, 2)
	assert.Empty(t, f.payrollRepo.runs)
	assert.Equal(t, 0, f.payrollRepo.creates)
}

func TestComputeDraft_InvalidPeriod(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	_, err := f.service.ComputeDraft(context.Background(), payroll.PeriodRequest{Year: 2024, Month: 13, Period: 3})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestComputeDraft_MissingSettings(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.settings.settings = nil

	_, err := f.service.ComputeDraft(context.Background(), periodRequest())
	assert.ErrorIs(t, err, policy.ErrSettingsNotFound)
}

func TestCreateRunIfAbsent_CreatesRunWithPayslips(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, string(payroll.RunStatusDraft), run.Status)
	assert.Equal(t, 2024, run.Year)
	require.Len(t, run.Payslips, 2)

	names := []string{run.Payslips[0].EmployeeName, run.Payslips[1].EmployeeName}
	assert.ElementsMatch(t, []string{"Somchai", "Malee"}, names)
}

func TestCreateRunIfAbsent_IsIdempotent(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	first, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	second, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.payrollRepo.creates)
	assert.Len(t, f.payrollRepo.runs, 1)
	assert.Len(t, second.Payslips, len(first.Payslips))
}

func TestCreateRunIfAbsent_DistinctPeriodsGetDistinctRuns(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	p1, err := f.service.CreateRunIfAbsent(context.Background(), payroll.PeriodRequest{Year: 2024, Month: 1, Period: 1})
	require.NoError(t, err)
	p2, err := f.service.CreateRunIfAbsent(context.Background(), payroll.PeriodRequest{Year: 2024, Month: 1, Period: 2})
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
	assert.Equal(t, 2, f.payrollRepo.creates)
}

func TestCreateRunIfAbsent_NoPayableEmployees(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.employees.employees = nil

	_, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	assert.ErrorIs(t, err, payroll.ErrNoPayableEmployees)
	assert.Empty(t, f.payrollRepo.runs)
}

func TestCreateRunIfAbsent_ExcludesUnpaidAndZeroSalary(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	for _, slip := range run.Payslips {
		assert.NotEqual(t, "emp-3", slip.EmployeeID)
		assert.NotEqual(t, "emp-4", slip.EmployeeID)
	}
}

func TestSendToEmployees_StampsRunAndPayslips(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.SendToEmployees(context.Background(), run.ID))

	got, err := f.service.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusSentToEmployee), got.Status)
	require.NotNil(t, got.SentAt)
	for _, slip := range got.Payslips {
		assert.NotNil(t, slip.SentAt)
	}
}

func TestSendToEmployees_TwiceIsRejected(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.SendToEmployees(context.Background(), run.ID))
	err = f.service.SendToEmployees(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
}

func TestFinalizeRun_RequiresSentStatus(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	// Draft runs cannot skip straight to final.
	err = f.service.FinalizeRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	require.NoError(t, f.service.SendToEmployees(context.Background(), run.ID))
	require.NoError(t, f.service.FinalizeRun(context.Background(), run.ID))

	got, err := f.service.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusFinal), got.Status)

	err = f.service.FinalizeRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
}

func TestRecordEmployeeDecision(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)
	require.NoError(t, f.service.SendToEmployees(context.Background(), run.ID))

	got, err := f.service.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	slipID := got.Payslips[0].ID

	note := "figures look wrong"
	err = f.service.RecordEmployeeDecision(context.Background(), slipID, payroll.DecisionRequest{
		Decision: string(payroll.PayslipStatusRejected),
		Note:     &note,
	})
	require.NoError(t, err)

	slip, err := f.payrollRepo.GetPayslipByID(context.Background(), slipID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayslipStatusRejected, slip.Status)
	require.NotNil(t, slip.HRNote)
	assert.Equal(t, note, *slip.HRNote)
}

func TestRecordEmployeeDecision_DraftRunIsRejected(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	got, err := f.service.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	slipID := got.Payslips[0].ID

	err = f.service.RecordEmployeeDecision(context.Background(), slipID, payroll.DecisionRequest{
		Decision: string(payroll.PayslipStatusAccepted),
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
}

func TestRecordEmployeeDecision_InvalidDecision(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.service.RecordEmployeeDecision(context.Background(), "whatever", payroll.DecisionRequest{
		Decision: "maybe",
	})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRecordEmployeeDecision_UnknownPayslip(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.service.RecordEmployeeDecision(context.Background(), "missing", payroll.DecisionRequest{
		Decision: string(payroll.PayslipStatusAccepted),
	})
	assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
}

func TestCreateRunIfAbsent_AppliesDeductions(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	// emp-1 has no clock events at all in January, so every workday of the
	// period is a full absence unit: 11 workdays in Jan 1-15, 2024.
	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	var slip payroll.PayslipResponse
	for _, p := range run.Payslips {
		if p.EmployeeID == "emp-1" {
			slip = p
		}
	}
	require.NotEmpty(t, slip.ID)

	assert.True(t, slip.Counters.AbsentUnits.Equal(decimal.NewFromInt(11)),
		"got %s absent units", slip.Counters.AbsentUnits)

	// 11 × 30000/26 = 12692.307... → 12692.31.
	require.Len(t, slip.Deductions, 1)
	assert.True(t, slip.TotalDeductions.Equal(decimal.RequireFromString("12692.31")),
		"got %s", slip.TotalDeductions)
	assert.True(t, slip.NetSalary.Equal(decimal.RequireFromString("2307.69")),
		"got %s", slip.NetSalary)
}

func TestCreateRunIfAbsent_MonthlyNoAttendanceSkipsCounters(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	run, err := f.service.CreateRunIfAbsent(context.Background(), periodRequest())
	require.NoError(t, err)

	var slip payroll.PayslipResponse
	for _, p := range run.Payslips {
		if p.EmployeeID == "emp-2" {
			slip = p
		}
	}
	require.NotEmpty(t, slip.ID)

	assert.True(t, slip.Counters.AbsentUnits.IsZero())
	assert.Empty(t, slip.Deductions)
	assert.True(t, slip.NetSalary.Equal(decimal.NewFromInt(15000)))
}
