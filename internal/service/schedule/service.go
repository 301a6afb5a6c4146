package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcadehq/workforce-client-go/internal/domain/schedule"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/week"
)

type scheduleService struct {
	repo   schedule.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduleService(repo schedule.Repository, logger *slog.Logger) schedule.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// LoadWeek implements schedule.Service.
func (s *scheduleService) LoadWeek(ctx context.Context, shopID string, offset int) (*schedule.Grid, error) {
	start := week.Start(s.now(), offset)
	return s.loadWeek(ctx, shopID, start)
}

func (s *scheduleService) loadWeek(ctx context.Context, shopID string, start time.Time) (*schedule.Grid, error) {
	resp, err := s.repo.WeekSchedule(ctx, shopID, week.FormatDate(start))
	if err != nil {
		return nil, err
	}

	grid := &schedule.Grid{
		ShopID:    shopID,
		WeekStart: start,
		Dates:     week.Dates(start),
		Templates: resp.Templates,
	}

	// Seven ordered day buckets, one cell per template slot.
	for _, date := range grid.Dates {
		for _, tpl := range resp.Templates {
			grid.Cells = append(grid.Cells, &schedule.Cell{
				TemplateID:   tpl.ID,
				TemplateName: tpl.Name,
				Date:         date,
				StartTime:    tpl.StartTime,
				EndTime:      tpl.EndTime,
			})
		}
	}

	// Assign server shifts to cells by exact (date, start, end) match.
	// Shifts that fit no known slot are dropped from the grid but left
	// untouched server-side.
	for _, shift := range resp.Shifts {
		cell := s.matchCell(grid, shift)
		if cell == nil {
			s.logger.Debug("shift does not match any template slot, hiding from grid",
				"shift_id", shift.ID, "date", shift.Date,
				"start", shift.StartTime, "end", shift.EndTime)
			continue
		}
		shiftID := shift.ID
		cell.Assignments = append(cell.Assignments, &schedule.Assignment{
			EmployeeID:   shift.EmployeeID,
			EmployeeName: shift.EmployeeName,
			ShiftID:      &shiftID,
		})
	}

	return grid, nil
}

func (s *scheduleService) matchCell(grid *schedule.Grid, shift schedule.Shift) *schedule.Cell {
	for _, cell := range grid.Cells {
		if cell.Date == shift.Date &&
			cell.StartTime == shift.StartTime &&
			cell.EndTime == shift.EndTime {
			return cell
		}
	}
	return nil
}

// SaveWeek implements schedule.Service. Dirty assignments are flushed one at
// a time with isolated failures: one rejected shift never blocks the rest of
// the batch, and the result names every entity that failed. The week is then
// reloaded so the returned grid reflects server ground truth rather than the
// optimistic local state.
func (s *scheduleService) SaveWeek(ctx context.Context, grid *schedule.Grid) (schedule.SaveResult, *schedule.Grid, error) {
	var result schedule.SaveResult

	for _, cell := range grid.Cells {
		for _, a := range cell.Assignments {
			if !a.Dirty {
				continue
			}

			switch {
			case a.ShiftID == nil && a.ToDelete:
				// Contradictory state: never persisted, nothing to delete.
				a.ToDelete = false
				a.Dirty = false

			case a.ShiftID == nil:
				req := schedule.CreateShiftRequest{
					Employee:  a.EmployeeID,
					ShopID:    grid.ShopID,
					Date:      cell.Date,
					StartTime: cell.StartTime,
					EndTime:   cell.EndTime,
				}
				created, err := s.repo.CreateShift(ctx, req)
				if err != nil {
					result.Failures = append(result.Failures, saveFailure(a.EmployeeName, cell.Date, err))
					continue
				}
				shiftID := created.ID
				a.ShiftID = &shiftID
				a.Dirty = false
				result.Created++

			case a.ToDelete:
				// A 404 means someone else already removed it; that is the
				// outcome we wanted, so treat it as success.
				if err := s.repo.DeleteShift(ctx, *a.ShiftID); err != nil && !errors.Is(err, schedule.ErrShiftNotFound) {
					result.Failures = append(result.Failures, saveFailure(a.EmployeeName, cell.Date, err))
					continue
				}
				a.ShiftID = nil
				a.ToDelete = false
				a.Dirty = false
				result.Deleted++

			default:
				// Persisted and unchanged beyond the flag: nothing to send.
				a.Dirty = false
			}
		}
	}

	if !result.Ok() {
		s.logger.Warn("week schedule save finished with failures",
			"shop_id", grid.ShopID, "created", result.Created,
			"deleted", result.Deleted, "failed", len(result.Failures))
	}

	reloaded, err := s.loadWeek(ctx, grid.ShopID, grid.WeekStart)
	if err != nil {
		return result, nil, fmt.Errorf("saved but failed to reload week: %w", err)
	}
	return result, reloaded, nil
}

// CopyWeekForward implements schedule.Service.
func (s *scheduleService) CopyWeekForward(ctx context.Context, grid *schedule.Grid) error {
	req := schedule.CopyWeekRequest{
		ShopID:        grid.ShopID,
		FromWeekStart: week.FormatDate(grid.WeekStart),
		ToWeekStart:   week.FormatDate(grid.WeekStart.AddDate(0, 0, 7)),
	}
	return s.repo.CopyWeek(ctx, req)
}

func saveFailure(employeeName, date string, err error) schedule.SaveFailure {
	return schedule.SaveFailure{
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
