package payroll

import "context"

// Repository accesses the payroll endpoints of the platform API.
type Repository interface {
	// List retrieves payroll runs for a shop, newest first.
	List(ctx context.Context, filter ListFilter) ([]Run, error)

	// Get retrieves a run with its lines.
	Get(ctx context.Context, id string) (Run, error)

	// Generate starts a payroll run for a period.
	Generate(ctx context.Context, req GenerateRequest) (Run, error)
}
