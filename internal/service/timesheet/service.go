package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/week"
)

type timesheetService struct {
	repo   timesheet.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewTimesheetService(repo timesheet.Repository, logger *slog.Logger) timesheet.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &timesheetService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// LoadWeek implements timesheet.Service.
func (s *timesheetService) LoadWeek(ctx context.Context, shopID string, offset int) ([]*timesheet.WeekGroup, error) {
	start := week.Start(s.now(), offset)
	return s.loadWeek(ctx, shopID, start)
}

func (s *timesheetService) loadWeek(ctx context.Context, shopID string, start time.Time) ([]*timesheet.WeekGroup, error) {
	entries, err := s.repo.WeekEntries(ctx, shopID, week.FormatDate(start))
	if err != nil {
		return nil, err
	}
	return s.buildGroups(shopID, start, entries), nil
}

// buildGroups buckets entries into per-employee week groups, preserving the
// order employees first appear in the server response. Every group carries a
// full seven-cell week so the caller can edit days with no entry yet.
func (s *timesheetService) buildGroups(shopID string, start time.Time, entries []timesheet.Entry) []*timesheet.WeekGroup {
	dates := week.Dates(start)
	index := make(map[string]int, 7)
	for i, d := range dates {
		index[d] = i
	}

	byEmployee := make(map[string]*timesheet.WeekGroup)
	var groups []*timesheet.WeekGroup

	for _, entry := range entries {
		group, ok := byEmployee[entry.EmployeeID]
		if !ok {
			group = &timesheet.WeekGroup{
				EmployeeID:   entry.EmployeeID,
				EmployeeName: entry.EmployeeName,
				ShopID:       shopID,
				WeekStart:    week.FormatDate(start),
			}
			for i, d := range dates {
				group.Days[i] = &timesheet.DayCell{Date: d}
			}
			byEmployee[entry.EmployeeID] = group
			groups = append(groups, group)
		}

		day, ok := index[entry.Date]
		if !ok {
			s.logger.Debug("entry date falls outside the requested week, hiding from groups",
				"entry_id", entry.ID, "date", entry.Date)
			continue
		}

		entryID := entry.ID
		cell := group.Days[day]
		cell.EntryID = &entryID
		cell.Hours = entry.Hours
		cell.OriginalHours = entry.Hours
		cell.Status = entry.Status
		cell.Notes = entry.Notes
		cell.EditHistory = entry.EditHistory
	}

	return groups
}

// SaveGroup implements timesheet.Service. Cells are flushed one at a time in
// day order with isolated failures, then the group is rebuilt from the server
// so the returned state is ground truth, not the optimistic local copy.
func (s *timesheetService) SaveGroup(ctx context.Context, group *timesheet.WeekGroup) (timesheet.SaveResult, *timesheet.WeekGroup, error) {
	var result timesheet.SaveResult

	for _, cell := range group.Days {
		if cell == nil || !cell.Dirty {
			continue
		}

		switch {
		case cell.EntryID == nil && cell.ToDelete:
			// Never persisted, nothing to delete server-side.
			cell.ToDelete = false
			cell.Dirty = false

		case cell.EntryID == nil:
			if cell.Hours <= 0 {
				cell.Dirty = false
				continue
			}
			req := timesheet.CreateEntryRequest{
				Employee: group.EmployeeID,
				ShopID:   group.ShopID,
				Date:     cell.Date,
				Hours:    cell.Hours,
				Notes:    cell.Notes,
				Status:   timesheet.StatusPending,
			}
			created, err := s.repo.Create(ctx, req)
			if err != nil {
				result.Failures = append(result.Failures, saveFailure(group.EmployeeName, cell.Date, err))
				continue
			}
			entryID := created.ID
			cell.EntryID = &entryID
			cell.OriginalHours = cell.Hours
			cell.Status = timesheet.StatusPending
			cell.Dirty = false
			result.Created++

		case cell.ToDelete:
			if err := s.repo.Delete(ctx, *cell.EntryID); err != nil && !errors.Is(err, timesheet.ErrEntryNotFound) {
				result.Failures = append(result.Failures, saveFailure(group.EmployeeName, cell.Date, err))
				continue
			}
			cell.EntryID = nil
			cell.ToDelete = false
			cell.Dirty = false
			result.Deleted++

		default:
			// Editing a processed entry re-opens it: status drops back to
			// PENDING and the audit records travel with the update. The notes
			// field stays whatever the user typed.
			status := cell.Status
			if status == timesheet.StatusApproved || status == timesheet.StatusRejected {
				status = timesheet.StatusPending
			}
			req := timesheet.UpdateEntryRequest{
				ID:          *cell.EntryID,
				Hours:       cell.Hours,
				Notes:       cell.Notes,
				Status:      status,
				EditHistory: cell.EditHistory,
			}
			updated, err := s.repo.Update(ctx, req)
			if err != nil {
				result.Failures = append(result.Failures, saveFailure(group.EmployeeName, cell.Date, err))
				continue
			}
			cell.Hours = updated.Hours
			cell.OriginalHours = updated.Hours
			cell.Status = updated.Status
			cell.Dirty = false
			result.Updated++
		}
	}

	if !result.Ok() {
		s.logger.Warn("timesheet group save finished with failures",
			"shop_id", group.ShopID, "employee", group.EmployeeID,
			"created", result.Created, "updated", result.Updated,
			"deleted", result.Deleted, "failed", len(result.Failures))
	}

	start, err := week.ParseDate(group.WeekStart)
	if err != nil {
		return result, nil, fmt.Errorf("saved but week start %q is unreadable: %w", group.WeekStart, err)
	}
	groups, err := s.loadWeek(ctx, group.ShopID, start)
	if err != nil {
		return result, nil, fmt.Errorf("saved but failed to reload week: %w", err)
	}
	for _, g := range groups {
		if g.EmployeeID == group.EmployeeID {
			return result, g, nil
		}
	}
	// Every entry was deleted: the server no longer returns this employee.
	empty := &timesheet.WeekGroup{
		EmployeeID:   group.EmployeeID,
		EmployeeName: group.EmployeeName,
		ShopID:       group.ShopID,
		WeekStart:    group.WeekStart,
	}
	for i, d := range week.Dates(start) {
		empty.Days[i] = &timesheet.DayCell{Date: d}
	}
	return result, empty, nil
}

// ApproveGroup implements timesheet.Service.
func (s *timesheetService) ApproveGroup(ctx context.Context, group *timesheet.WeekGroup) (timesheet.ApprovalResult, error) {
	return s.transitionGroup(ctx, group, timesheet.StatusApproved, func(ctx context.Context, id string) error {
		return s.repo.Approve(ctx, id)
	})
}

// RejectGroup implements timesheet.Service.
func (s *timesheetService) RejectGroup(ctx context.Context, group *timesheet.WeekGroup, reason string) (timesheet.ApprovalResult, error) {
	return s.transitionGroup(ctx, group, timesheet.StatusRejected, func(ctx context.Context, id string) error {
		return s.repo.Reject(ctx, id, reason)
	})
}

// transitionGroup applies a status transition entry by entry. Members already
// in the target state are skipped, not re-sent, and one rejection never stops
// the rest of the group.
func (s *timesheetService) transitionGroup(ctx context.Context, group *timesheet.WeekGroup, target timesheet.Status, apply func(context.Context, string) error) (timesheet.ApprovalResult, error) {
	var result timesheet.ApprovalResult

	for _, cell := range group.Days {
		if cell == nil || cell.EntryID == nil || cell.ToDelete {
			continue
		}
		if cell.Status == target {
			result.Skipped++
			continue
		}
		if err := apply(ctx, *cell.EntryID); err != nil {
			if errors.Is(err, timesheet.ErrAlreadyProcessed) {
				result.Skipped++
				continue
			}
			result.Failures = append(result.Failures, saveFailure(group.EmployeeName, cell.Date, err))
			continue
		}
		cell.Status = target
		result.Transitioned++
	}

	if !result.Ok() {
		s.logger.Warn("timesheet group transition finished with failures",
			"shop_id", group.ShopID, "employee", group.EmployeeID,
			"target", target, "transitioned", result.Transitioned,
			"failed", len(result.Failures))
	}
	return result, nil
}

func saveFailure(employeeName, date string, err error) timesheet.SaveFailure {
	return timesheet.SaveFailure{
		EmployeeName: employeeName,
		Date:         date,
		Message:      failureMessage(err),
	}
}

func failureMessage(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}
