package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	GetInRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
