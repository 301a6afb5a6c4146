package schedule

import "context"

// Service presents a server-backed week schedule as editable local state and
// submits only the deltas on save.
type Service interface {
	// LoadWeek builds the grid for the week `offset` weeks from the current
	// one, populated from the server.
	LoadWeek(ctx context.Context, shopID string, offset int) (*Grid, error)

	// SaveWeek flushes dirty assignments (creates and deletes), then reloads
	// the week from the server so the returned grid reflects ground truth.
	SaveWeek(ctx context.Context, grid *Grid) (SaveResult, *Grid, error)

	// CopyWeekForward duplicates the grid's week into the next one.
	CopyWeekForward(ctx context.Context, grid *Grid) error
}
