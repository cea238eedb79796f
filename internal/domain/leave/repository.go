package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// GetApprovedInRange returns approved requests whose date range overlaps
	// [from, to], for all employees.
	GetApprovedInRange(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
}
