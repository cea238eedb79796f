package holiday

import "time"

// Holiday marks a calendar date as non-working regardless of weekday.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
