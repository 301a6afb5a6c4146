package timesheet

import "context"

// Repository accesses the timesheet endpoints of the platform API.
type Repository interface {
	// WeekEntries retrieves all entries for a shop's week.
	WeekEntries(ctx context.Context, shopID, weekStart string) ([]Entry, error)

	// Create persists a new day entry.
	Create(ctx context.Context, req CreateEntryRequest) (Entry, error)

	// Update modifies an existing entry.
	Update(ctx context.Context, req UpdateEntryRequest) (Entry, error)

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error

	// Approve transitions a single entry to APPROVED.
	Approve(ctx context.Context, id string) error

	// Reject transitions a single entry to REJECTED with a reason.
	Reject(ctx context.Context, id, reason string) error

	// ClockIn and ClockOut record kiosk clock actions.
	ClockIn(ctx context.Context, req ClockRequest) (ClockResult, error)
	ClockOut(ctx context.Context, req ClockRequest) (ClockResult, error)
}
