package policy

import (
	"context"
	"errors"

	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
)

type SettingsServiceImpl struct {
	settingsRepo policy.SettingsRepository
}

func NewSettingsService(settingsRepo policy.SettingsRepository) policy.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (policy.SettingsResponse, error) {
	settings, err := s.settingsRepo.GetActive(ctx)
	if err != nil {
		return policy.SettingsResponse{}, err
	}

	return policy.ToSettingsResponse(settings), nil
}

func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req policy.UpdateSettingsRequest) (policy.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.SettingsResponse{}, err
	}

	current, err := s.settingsRepo.GetActive(ctx)
	if err != nil && !errors.Is(err, policy.ErrSettingsNotFound) {
		return policy.SettingsResponse{}, err
	}

	applyUpdates(&current, req)

	updated, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		return policy.SettingsResponse{}, err
	}

	return policy.ToSettingsResponse(updated), nil
}

func applyUpdates(current *policy.Settings, req policy.UpdateSettingsRequest) {
	if req.WorkStartTime != nil {
		current.WorkStartTime = req.WorkStartTime
	}
	if req.GraceMinutes != nil {
		current.GraceMinutes = req.GraceMinutes
	}
	if req.AbsentCutoffTime != nil {
		current.AbsentCutoffTime = req.AbsentCutoffTime
	}
	if req.HalfDayCutoffTime != nil {
		current.HalfDayCutoffTime = req.HalfDayCutoffTime
	}
	if req.Weekend != nil {
		current.Weekend = req.Weekend
	}
	if req.Period1StartDay != nil {
		current.Period1StartDay = req.Period1StartDay
	}
	if req.Period1EndDay != nil {
		current.Period1EndDay = req.Period1EndDay
	}
	if req.Period2StartDay != nil {
		current.Period2StartDay = req.Period2StartDay
	}
	if req.DeductionBaseDays != nil {
		current.DeductionBaseDays = req.DeductionBaseDays
	}
	if req.LeaveRules != nil {
		current.LeaveRules = req.LeaveRules
	}
	if req.SSOEnabled != nil {
		current.SSOEnabled = req.SSOEnabled
	}
	if req.SSOPercent != nil {
		current.SSOPercent = req.SSOPercent
	}
	if req.SSOMonthlyWageCap != nil {
		current.SSOMonthlyWageCap = req.SSOMonthlyWageCap
	}
	if req.WithholdingEnabled != nil {
		current.WithholdingEnabled = req.WithholdingEnabled
	}
	if req.WithholdingPercent != nil {
		current.WithholdingPercent = req.WithholdingPercent
	}
	if req.EarlyLeaveHalfDay != nil {
		current.EarlyLeaveHalfDay = req.EarlyLeaveHalfDay
	}
}
