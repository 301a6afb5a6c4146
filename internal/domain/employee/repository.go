package employee

import "context"

// Repository reads employee data from the platform API.
type Repository interface {
	// List retrieves employees, optionally filtered to one shop.
	List(ctx context.Context, filter ListFilter) ([]Employee, error)

	// Get retrieves a single employee by ID.
	Get(ctx context.Context, id string) (Employee, error)
}

type ListFilter struct {
	ShopID     string
	ActiveOnly bool
}
