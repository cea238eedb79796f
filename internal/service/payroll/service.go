package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/siamhr/payroll-backend-go/internal/domain/attendance"
	"github.com/siamhr/payroll-backend-go/internal/domain/employee"
	"github.com/siamhr/payroll-backend-go/internal/domain/holiday"
	"github.com/siamhr/payroll-backend-go/internal/domain/leave"
	"github.com/siamhr/payroll-backend-go/internal/domain/payroll"
	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
	"github.com/siamhr/payroll-backend-go/internal/pkg/database"
)

type PayrollServiceImpl struct {
	tx             database.TxManager
	logger         *slog.Logger
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	holidayRepo    holiday.HolidayRepository
	settingsRepo   policy.SettingsRepository

	// now is the evaluation clock, injectable for tests.
	now func() time.Time
}

func NewPayrollService(
	tx database.TxManager,
	logger *slog.Logger,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	holidayRepo holiday.HolidayRepository,
	settingsRepo policy.SettingsRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:             tx,
		logger:         logger,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		holidayRepo:    holidayRepo,
		settingsRepo:   settingsRepo,
		now:            time.Now,
	}
}

// ComputeDraft calculates the period's payslips without writing anything.
// When a run already exists for the key, its persisted payslips are returned
// instead: recomputation would silently diverge from figures already under
// review.
func (s *PayrollServiceImpl) ComputeDraft(ctx context.Context, req payroll.PeriodRequest) ([]payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	key := req.Key()

	existing, err := s.payrollRepo.GetRunByKey(ctx, key)
	if err == nil {
		payslips, err := s.payrollRepo.GetPayslipsByRunID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		return payroll.ToPayslipResponses(payslips), nil
	}
	if !errors.Is(err, payroll.ErrRunNotFound) {
		return nil, err
	}

	payslips, err := s.computePayslips(ctx, key)
	if err != nil {
		return nil, err
	}

	return payroll.ToPayslipResponses(payslips), nil
}

// CreateRunIfAbsent creates the run and one payslip per payable employee as a
// single atomic unit. Idempotent by period key: a second call returns the
// persisted run unchanged.
func (s *PayrollServiceImpl) CreateRunIfAbsent(ctx context.Context, req payroll.PeriodRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	key := req.Key()

	var run payroll.PayrollRun
	var payslips []payroll.Payslip

	err := s.tx.RunSerializable(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetRunByKey(ctx, key)
		if err == nil {
			// Not an error: resolved by returning the existing run, but it
			// must be distinguishable in logs from a fresh creation.
			s.logger.Info("payroll run already exists, returning persisted run",
				slog.Int("year", key.Year), slog.Int("month", key.Month), slog.Int("period", key.Period),
				slog.String("run_id", existing.ID))
			run = existing
			payslips, err = s.payrollRepo.GetPayslipsByRunID(ctx, existing.ID)
			return err
		}
		if !errors.Is(err, payroll.ErrRunNotFound) {
			return err
		}

		drafts, err := s.computePayslips(ctx, key)
		if err != nil {
			return err
		}
		for i := range drafts {
			drafts[i].ID = uuid.NewString()
		}

		created, err := s.payrollRepo.CreateRun(ctx, payroll.PayrollRun{
			ID:     uuid.NewString(),
			Key:    key,
			Status: payroll.RunStatusDraft,
		}, drafts)
		if err != nil {
			return err
		}

		s.logger.Info("payroll run created",
			slog.Int("year", key.Year), slog.Int("month", key.Month), slog.Int("period", key.Period),
			slog.String("run_id", created.ID), slog.Int("payslips", len(drafts)))

		run = created
		payslips, err = s.payrollRepo.GetPayslipsByRunID(ctx, created.ID)
		return err
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.ToRunResponse(run, payslips), nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	payslips, err := s.payrollRepo.GetPayslipsByRunID(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return payroll.ToRunResponse(run, payslips), nil
}

// SendToEmployees moves a draft run to sent_to_employee and stamps every
// payslip with the sent marker, atomically.
func (s *PayrollServiceImpl) SendToEmployees(ctx context.Context, runID string) error {
	return s.tx.RunSerializable(ctx, func(ctx context.Context) error {
		run, err := s.payrollRepo.GetRunByID(ctx, runID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunStatusDraft {
			return fmt.Errorf("%w: cannot send run in status %s", payroll.ErrInvalidTransition, run.Status)
		}
		return s.payrollRepo.MarkRunSent(ctx, runID, s.now().UTC())
	})
}

// FinalizeRun moves a sent run to final; its payslips become immutable.
func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, runID string) error {
	return s.tx.RunSerializable(ctx, func(ctx context.Context) error {
		run, err := s.payrollRepo.GetRunByID(ctx, runID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunStatusSentToEmployee {
			return fmt.Errorf("%w: cannot finalize run in status %s", payroll.ErrInvalidTransition, run.Status)
		}
		return s.payrollRepo.MarkRunFinal(ctx, runID)
	})
}

// RecordEmployeeDecision accepts or rejects one payslip. Independent of the
// run's own lifecycle, but only meaningful while the run is sent: a draft
// run's payslips are not visible to employees yet, and a final run is
// immutable.
func (s *PayrollServiceImpl) RecordEmployeeDecision(ctx context.Context, payslipID string, req payroll.DecisionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return s.tx.RunSerializable(ctx, func(ctx context.Context) error {
		slip, err := s.payrollRepo.GetPayslipByID(ctx, payslipID)
		if err != nil {
			return err
		}
		run, err := s.payrollRepo.GetRunByID(ctx, slip.RunID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunStatusSentToEmployee {
			return fmt.Errorf("%w: cannot record decision while run is %s", payroll.ErrInvalidTransition, run.Status)
		}
		return s.payrollRepo.UpdatePayslipDecision(ctx, payslipID, payroll.PayslipStatus(req.Decision), req.Note)
	})
}

// computePayslips is the deterministic core: a fold over employees and days.
// All inputs are read-only snapshots taken here.
func (s *PayrollServiceImpl) computePayslips(ctx context.Context, key payroll.PeriodKey) ([]payroll.Payslip, error) {
	settings, err := s.settingsRepo.GetActive(ctx)
	if err != nil {
		// Missing policy is non-recoverable: defaulting statutory rates is
		// never safe.
		return nil, fmt.Errorf("payroll calculation requires hr policy settings: %w", err)
	}
	pol := ResolvePolicy(settings)

	periodStart, periodEnd := pol.PeriodRange(key)
	now := s.now()

	employees, err := s.employeeRepo.GetPayable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if len(employees) == 0 {
		return nil, payroll.ErrNoPayableEmployees
	}

	holidays, err := s.holidayRepo.GetInRange(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	holidayMap := make(map[string]string, len(holidays))
	for _, h := range holidays {
		holidayMap[DateKey(h.Date)] = h.Name
	}

	yearStart := time.Date(key.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(key.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	leaves, err := s.leaveRepo.GetApprovedInRange(ctx, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave requests: %w", err)
	}
	leavesByEmployee := make(map[string][]leave.LeaveRequest)
	for _, lr := range leaves {
		leavesByEmployee[lr.EmployeeID] = append(leavesByEmployee[lr.EmployeeID], lr)
	}

	events, err := s.attendanceRepo.GetEventsInRange(ctx, periodStart, periodEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance events: %w", err)
	}
	eventsByEmployee := make(map[string]map[string][]attendance.Event)
	for _, ev := range events {
		byDay := eventsByEmployee[ev.EmployeeID]
		if byDay == nil {
			byDay = make(map[string][]attendance.Event)
			eventsByEmployee[ev.EmployeeID] = byDay
		}
		day := DateKey(ev.Timestamp)
		byDay[day] = append(byDay[day], ev)
	}

	adjustments, err := s.attendanceRepo.GetAdjustmentsInRange(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance adjustments: %w", err)
	}
	adjustmentsByEmployee := make(map[string]map[string]*attendance.Adjustment)
	for i := range adjustments {
		adj := adjustments[i]
		byDay := adjustmentsByEmployee[adj.EmployeeID]
		if byDay == nil {
			byDay = make(map[string]*attendance.Adjustment)
			adjustmentsByEmployee[adj.EmployeeID] = byDay
		}
		day := DateKey(adj.Date)
		if _, exists := byDay[day]; !exists {
			byDay[day] = &adjustments[i]
		}
	}

	input := PeriodInput{
		Policy:      pol,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Holidays:    holidayMap,
		Leaves:      leavesByEmployee,
		Events:      eventsByEmployee,
		Adjustments: adjustmentsByEmployee,
		Now:         now,
	}

	payslips := make([]payroll.Payslip, 0, len(employees))
	for _, emp := range employees {
		if !emp.Payable() {
			continue
		}

		summary := AggregatePeriod(emp, input)

		var overLimit []leave.LeaveRequest
		for _, lr := range leavesByEmployee[emp.ID] {
			if lr.OverLimit && overlapDays(periodStart, periodEnd, lr.StartDate, lr.EndDate) > 0 {
				overLimit = append(overLimit, lr)
			}
		}

		deductions := BuildDeductions(DeductionInput{
			Employee:        emp,
			Policy:          pol,
			Key:             key,
			PeriodStart:     periodStart,
			PeriodEnd:       periodEnd,
			Summary:         summary,
			OverLimitLeaves: overLimit,
			BasePay:         BasePayForPeriod(*emp.MonthlySalary),
		})

		payslips = append(payslips, AssemblePayslip(emp, key, summary, deductions))
	}

	return payslips, nil
}
