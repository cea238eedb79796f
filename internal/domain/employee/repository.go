package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetPayable returns active or suspended employees that carry a positive
	// monthly salary and a pay type other than unpaid.
	GetPayable(ctx context.Context) ([]Employee, error)
}
