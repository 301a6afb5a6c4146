package timesheet

import "context"

// Service presents server-backed weekly timesheets as editable week groups
// and submits only the deltas on save.
type Service interface {
	// LoadWeek fetches the week `offset` weeks from the current one and
	// groups entries into per-employee week groups.
	LoadWeek(ctx context.Context, shopID string, offset int) ([]*WeekGroup, error)

	// SaveGroup flushes a group's dirty cells sequentially with isolated
	// failures, then reloads the group from the server.
	SaveGroup(ctx context.Context, group *WeekGroup) (SaveResult, *WeekGroup, error)

	// ApproveGroup approves every member entry not already approved.
	ApproveGroup(ctx context.Context, group *WeekGroup) (ApprovalResult, error)

	// RejectGroup rejects every member entry not already rejected.
	RejectGroup(ctx context.Context, group *WeekGroup, reason string) (ApprovalResult, error)
}
