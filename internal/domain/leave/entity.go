package leave

import "time"

type LeaveType string

const (
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeBusiness LeaveType = "business"
	LeaveTypeVacation LeaveType = "vacation"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// LeaveRequest covers an inclusive date range. OverLimit is stamped by the
// approval workflow when the request already exceeds the employee's annual
// entitlement for its leave type.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Status     RequestStatus
	OverLimit  bool
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether day falls inside the request's inclusive range.
func (lr LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(lr.StartDate) && !day.After(lr.EndDate)
}
