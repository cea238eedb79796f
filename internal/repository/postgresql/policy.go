package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/siamhr/payroll-backend-go/internal/domain/policy"
	"github.com/siamhr/payroll-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) policy.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetActive(ctx context.Context) (policy.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, work_start_time, grace_minutes, absent_cutoff_time, half_day_cutoff_time,
			   weekend, period1_start_day, period1_end_day, period2_start_day,
			   deduction_base_days, leave_rules, sso_enabled, sso_percent, sso_monthly_wage_cap,
			   withholding_enabled, withholding_percent, early_leave_half_day,
			   created_at, updated_at
		FROM hr_policy_settings
		WHERE active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s policy.Settings
	var leaveRules []byte
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.WorkStartTime, &s.GraceMinutes, &s.AbsentCutoffTime, &s.HalfDayCutoffTime,
		&s.Weekend, &s.Period1StartDay, &s.Period1EndDay, &s.Period2StartDay,
		&s.DeductionBaseDays, &leaveRules, &s.SSOEnabled, &s.SSOPercent, &s.SSOMonthlyWageCap,
		&s.WithholdingEnabled, &s.WithholdingPercent, &s.EarlyLeaveHalfDay,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.Settings{}, policy.ErrSettingsNotFound
		}
		return policy.Settings{}, fmt.Errorf("failed to get hr policy settings: %w", err)
	}

	if len(leaveRules) > 0 {
		if err := json.Unmarshal(leaveRules, &s.LeaveRules); err != nil {
			return policy.Settings{}, fmt.Errorf("failed to decode leave rules: %w", err)
		}
	}

	return s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings policy.Settings) (policy.Settings, error) {
	q := GetQuerier(ctx, r.db)

	leaveRules, err := json.Marshal(settings.LeaveRules)
	if err != nil {
		return policy.Settings{}, fmt.Errorf("failed to encode leave rules: %w", err)
	}

	query := `
		INSERT INTO hr_policy_settings (
			id, active, work_start_time, grace_minutes, absent_cutoff_time, half_day_cutoff_time,
			weekend, period1_start_day, period1_end_day, period2_start_day,
			deduction_base_days, leave_rules, sso_enabled, sso_percent, sso_monthly_wage_cap,
			withholding_enabled, withholding_percent, early_leave_half_day
		) VALUES (gen_random_uuid(), TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (active) WHERE active DO UPDATE SET
			work_start_time = EXCLUDED.work_start_time,
			grace_minutes = EXCLUDED.grace_minutes,
			absent_cutoff_time = EXCLUDED.absent_cutoff_time,
			half_day_cutoff_time = EXCLUDED.half_day_cutoff_time,
			weekend = EXCLUDED.weekend,
			period1_start_day = EXCLUDED.period1_start_day,
			period1_end_day = EXCLUDED.period1_end_day,
			period2_start_day = EXCLUDED.period2_start_day,
			deduction_base_days = EXCLUDED.deduction_base_days,
			leave_rules = EXCLUDED.leave_rules,
			sso_enabled = EXCLUDED.sso_enabled,
			sso_percent = EXCLUDED.sso_percent,
			sso_monthly_wage_cap = EXCLUDED.sso_monthly_wage_cap,
			withholding_enabled = EXCLUDED.withholding_enabled,
			withholding_percent = EXCLUDED.withholding_percent,
			early_leave_half_day = EXCLUDED.early_leave_half_day,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	updated := settings
	err = q.QueryRow(ctx, query,
		settings.WorkStartTime, settings.GraceMinutes, settings.AbsentCutoffTime, settings.HalfDayCutoffTime,
		settings.Weekend, settings.Period1StartDay, settings.Period1EndDay, settings.Period2StartDay,
		settings.DeductionBaseDays, leaveRules, settings.SSOEnabled, settings.SSOPercent, settings.SSOMonthlyWageCap,
		settings.WithholdingEnabled, settings.WithholdingPercent, settings.EarlyLeaveHalfDay,
	).Scan(&updated.ID, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		return policy.Settings{}, fmt.Errorf("failed to upsert hr policy settings: %w", err)
	}

	return updated, nil
}
