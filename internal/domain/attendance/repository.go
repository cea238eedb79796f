package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetEventsInRange returns raw clock events for all employees with
	// timestamps in [from, to), ordered by employee and timestamp.
	GetEventsInRange(ctx context.Context, from, to time.Time) ([]Event, error)
	// GetAdjustmentsInRange returns adjustments dated inside [from, to],
	// at most one per employee per day.
	GetAdjustmentsInRange(ctx context.Context, from, to time.Time) ([]Adjustment, error)
}
