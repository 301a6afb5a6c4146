package schedule

import "context"

// Repository accesses the schedule endpoints of the platform API.
type Repository interface {
	// WeekSchedule retrieves the authoritative week for a shop.
	WeekSchedule(ctx context.Context, shopID, weekStart string) (WeekScheduleResponse, error)

	// CreateShift persists a new assignment.
	CreateShift(ctx context.Context, req CreateShiftRequest) (Shift, error)

	// DeleteShift removes a persisted assignment.
	DeleteShift(ctx context.Context, id string) error

	// CopyWeek duplicates a week's shifts forward.
	CopyWeek(ctx context.Context, req CopyWeekRequest) error
}
