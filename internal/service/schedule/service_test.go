package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadehq/workforce-client-go/internal/domain/schedule"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/week"
)

// fakeScheduleRepo is an in-memory stand-in for the platform API that counts
// every call so tests can assert exactly what a save sent.
type fakeScheduleRepo struct {
	templates []schedule.ShiftTemplate
	shifts    map[string]schedule.Shift
	nextID    int

	createCalls []schedule.CreateShiftRequest
	deleteCalls []string
	copyCalls   []schedule.CopyWeekRequest

	failCreateFor string // employee ID whose creates are rejected
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		templates: []schedule.ShiftTemplate{
			{ID: "tpl-am", ShopID: "shop-1", Name: "Floor AM", StartTime: "09:00", EndTime: "17:00"},
			{ID: "tpl-pm", ShopID: "shop-1", Name: "Floor PM", StartTime: "17:00", EndTime: "23:00"},
		},
		shifts: map[string]schedule.Shift{},
	}
}

func (f *fakeScheduleRepo) WeekSchedule(_ context.Context, shopID, weekStart string) (schedule.WeekScheduleResponse, error) {
	resp := schedule.WeekScheduleResponse{
		ShopID:    shopID,
		WeekStart: weekStart,
		Templates: f.templates,
	}
	for _, shift := range f.shifts {
		resp.Shifts = append(resp.Shifts, shift)
	}
	return resp, nil
}

func (f *fakeScheduleRepo) CreateShift(_ context.Context, req schedule.CreateShiftRequest) (schedule.Shift, error) {
	f.createCalls = append(f.createCalls, req)
	if f.failCreateFor != "" && req.Employee == f.failCreateFor {
		return schedule.Shift{}, &apiclient.APIError{StatusCode: 400, Code: "validation_error", Message: "employee is not active"}
	}
	f.nextID++
	shift := schedule.Shift{
		ID:         fmt.Sprintf("shift-%d", f.nextID),
		ShopID:     req.ShopID,
		EmployeeID: req.Employee,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	f.shifts[shift.ID] = shift
	return shift, nil
}

func (f *fakeScheduleRepo) DeleteShift(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	if _, ok := f.shifts[id]; !ok {
		return schedule.ErrShiftNotFound
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeScheduleRepo) CopyWeek(_ context.Context, req schedule.CopyWeekRequest) error {
	f.copyCalls = append(f.copyCalls, req)
	return nil
}

func newTestScheduleService(repo schedule.Repository) *scheduleService {
	svc := NewScheduleService(repo, nil).(*scheduleService)
	// Pin "now" so the current week is deterministic.
	svc.now = func() time.Time {
		return time.Date(2025, time.July, 16, 10, 30, 0, 0, time.UTC) // a Wednesday
	}
	return svc
}

func TestScheduleService_LoadWeek_BuildsFullGrid(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)

	assert.Equal(t, "2025-07-14", week.FormatDate(grid.WeekStart))
	assert.Equal(t, "2025-07-14", grid.Dates[0])
	assert.Equal(t, "2025-07-20", grid.Dates[6])
	// 7 days x 2 templates
	assert.Len(t, grid.Cells, 14)
	assert.Equal(t, 0, grid.DirtyCount())
}

func TestScheduleService_LoadWeek_MatchesShiftsToCells(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	repo.shifts["shift-77"] = schedule.Shift{
		ID: "shift-77", ShopID: "shop-1", EmployeeID: "emp-1", EmployeeName: "Jane Doe",
		Date: "2025-07-15", StartTime: "09:00", EndTime: "17:00",
	}
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)

	cell := grid.Cell("2025-07-15", "tpl-am")
	require.NotNil(t, cell)
	require.Len(t, cell.Assignments, 1)
	assert.Equal(t, "Jane Doe", cell.Assignments[0].EmployeeName)
	require.NotNil(t, cell.Assignments[0].ShiftID)
	assert.Equal(t, "shift-77", *cell.Assignments[0].ShiftID)
	assert.False(t, cell.Assignments[0].Dirty)
}

func TestScheduleService_LoadWeek_DropsUnmatchedShifts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	// Times match no template slot.
	repo.shifts["shift-odd"] = schedule.Shift{
		ID: "shift-odd", ShopID: "shop-1", EmployeeID: "emp-1",
		Date: "2025-07-15", StartTime: "06:00", EndTime: "12:00",
	}
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)

	for _, cell := range grid.Cells {
		assert.Empty(t, cell.Assignments)
	}
}

// Assigning an employee to an empty slot and saving must issue exactly one
// create carrying the slot's date and times, and the reloaded grid must show
// the assignment as persisted.
func TestScheduleService_SaveWeek_CreatesNewAssignment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)

	cell := grid.Cell("2025-07-14", "tpl-am")
	require.NotNil(t, cell)
	cell.Assign("emp-jane", "Jane Doe")
	assert.Equal(t, 1, grid.DirtyCount())

	result, reloaded, err := svc.SaveWeek(ctx, grid)
	require.NoError(t, err)
	assert.True(t, result.Ok())
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Deleted)

	require.Len(t, repo.createCalls, 1)
	call := repo.createCalls[0]
	assert.Equal(t, "emp-jane", call.Employee)
	assert.Equal(t, "shop-1", call.ShopID)
	assert.Equal(t, "2025-07-14", call.Date)
	assert.Equal(t, "09:00", call.StartTime)
	assert.Equal(t, "17:00", call.EndTime)

	saved := reloaded.Cell("2025-07-14", "tpl-am")
	require.NotNil(t, saved)
	require.Len(t, saved.Assignments, 1)
	assert.NotNil(t, saved.Assignments[0].ShiftID)
	assert.Equal(t, 0, reloaded.DirtyCount())
}

// Saving a clean grid again must not send anything.
func TestScheduleService_SaveWeek_SecondSaveSendsNothing(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)
	grid.Cell("2025-07-14", "tpl-am").Assign("emp-jane", "Jane Doe")

	_, reloaded, err := svc.SaveWeek(ctx, grid)
	require.NoError(t, err)

	callsAfterFirst := len(repo.createCalls) + len(repo.deleteCalls)
	_, _, err = svc.SaveWeek(ctx, reloaded)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, len(repo.createCalls)+len(repo.deleteCalls))
}

func TestScheduleService_SaveWeek_DeletesMarkedAssignment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	repo.shifts["shift-9"] = schedule.Shift{
		ID: "shift-9", ShopID: "shop-1", EmployeeID: "emp-1", EmployeeName: "Bob",
		Date: "2025-07-14", StartTime: "09:00", EndTime: "17:00",
	}
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)
	grid.Cell("2025-07-14", "tpl-am").Unassign("emp-1")

	result, reloaded, err := svc.SaveWeek(ctx, grid)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"shift-9"}, repo.deleteCalls)
	assert.Empty(t, reloaded.Cell("2025-07-14", "tpl-am").Assignments)
}

// An assignment that never reached the server must not produce a delete call
// when removed, even if its flags end up contradictory.
func TestScheduleService_SaveWeek_NeverDeletesUnpersisted(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)
	cell := grid.Cell("2025-07-14", "tpl-am")
	cell.Assignments = append(cell.Assignments, &schedule.Assignment{
		EmployeeID: "emp-ghost", EmployeeName: "Ghost",
		ShiftID: nil, ToDelete: true, Dirty: true,
	})

	result, _, err := svc.SaveWeek(ctx, grid)
	require.NoError(t, err)
	assert.True(t, result.Ok())
	assert.Empty(t, repo.deleteCalls)
	assert.Empty(t, repo.createCalls)
}

// One rejected create must not block the rest of the batch, and the failure
// must name the employee and date.
func TestScheduleService_SaveWeek_IsolatesFailures(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	repo.failCreateFor = "emp-bad"
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)
	grid.Cell("2025-07-14", "tpl-am").Assign("emp-bad", "Bad Actor")
	grid.Cell("2025-07-15", "tpl-am").Assign("emp-good", "Good Egg")

	result, reloaded, err := svc.SaveWeek(ctx, grid)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Bad Actor", result.Failures[0].EmployeeName)
	assert.Equal(t, "2025-07-14", result.Failures[0].Date)
	assert.Equal(t, "employee is not active", result.Failures[0].Message)

	// The reload reflects ground truth: only the good assignment landed.
	assert.Empty(t, reloaded.Cell("2025-07-14", "tpl-am").Assignments)
	assert.Len(t, reloaded.Cell("2025-07-15", "tpl-am").Assignments, 1)
}

func TestScheduleService_SaveWeek_DeleteOf404IsSuccess(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)
	gone := "shift-gone"
	cell := grid.Cell("2025-07-14", "tpl-am")
	cell.Assignments = append(cell.Assignments, &schedule.Assignment{
		EmployeeID: "emp-1", ShiftID: &gone, ToDelete: true, Dirty: true,
	})

	result, _, err := svc.SaveWeek(ctx, grid)
	require.NoError(t, err)
	assert.True(t, result.Ok())
	assert.Equal(t, 1, result.Deleted)
}

func TestScheduleService_CopyWeekForward(t *testing.T) {
	ctx := context.Background()
	repo := newFakeScheduleRepo()
	svc := newTestScheduleService(repo)

	grid, err := svc.LoadWeek(ctx, "shop-1", 0)
	require.NoError(t, err)
	require.NoError(t, svc.CopyWeekForward(ctx, grid))

	require.Len(t, repo.copyCalls, 1)
	assert.Equal(t, "2025-07-14", repo.copyCalls[0].FromWeekStart)
	assert.Equal(t, "2025-07-21", repo.copyCalls[0].ToWeekStart)
}
