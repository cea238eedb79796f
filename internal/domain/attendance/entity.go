package attendance

import "time"

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Event is one raw clock machine record. An employee may produce several per
// day; only the earliest in and the latest out matter unless an adjustment
// overrides them.
type Event struct {
	ID         string
	EmployeeID string
	Timestamp  time.Time
	Direction  Direction
	CreatedAt  time.Time
}

type AdjustmentKind string

const (
	// AdjustmentAddRecord supplies corrected clock times that override the raw
	// events for the fields it actually carries.
	AdjustmentAddRecord AdjustmentKind = "add_record"
	// AdjustmentForgiveLate zeroes lateness for the day.
	AdjustmentForgiveLate AdjustmentKind = "forgive_late"
)

// Adjustment is an HR correction for one employee's day. At most one per
// employee per day is honored.
type Adjustment struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Kind        AdjustmentKind
	AdjustedIn  *time.Time
	AdjustedOut *time.Time
	Note        *string
	CreatedAt   time.Time
}
