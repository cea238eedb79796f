package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/siamhr/payroll-backend-go/internal/domain/attendance"
	"github.com/siamhr/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetEventsInRange(ctx context.Context, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, ts, direction, created_at
		FROM attendance_events
		WHERE ts >= $1 AND ts < $2
		ORDER BY employee_id, ts
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		var ev attendance.Event
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Timestamp, &ev.Direction, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

func (r *attendanceRepository) GetAdjustmentsInRange(ctx context.Context, from, to time.Time) ([]attendance.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	// At most one adjustment per employee per day is honored; the oldest one
	// wins so a second correction never silently replaces a reviewed one.
	query := `
		SELECT DISTINCT ON (employee_id, date)
			id, employee_id, date, kind, adjusted_in, adjusted_out, note, created_at
		FROM attendance_adjustments
		WHERE date >= $1 AND date <= $2
		ORDER BY employee_id, date, created_at
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []attendance.Adjustment
	for rows.Next() {
		var adj attendance.Adjustment
		if err := rows.Scan(&adj.ID, &adj.EmployeeID, &adj.Date, &adj.Kind, &adj.AdjustedIn, &adj.AdjustedOut, &adj.Note, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}

	return adjustments, rows.Err()
}
