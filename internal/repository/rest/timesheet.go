package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

type timesheetRepository struct {
	api *apiclient.Client
}

func NewTimesheetRepository(api *apiclient.Client) timesheet.Repository {
	return &timesheetRepository{api: api}
}

func (r *timesheetRepository) WeekEntries(ctx context.Context, shopID, weekStart string) ([]timesheet.Entry, error) {
	query := url.Values{}
	query.Set("shop_id", shopID)
	query.Set("week_start", weekStart)

	var entries []timesheet.Entry
	if err := r.api.Get(ctx, "/workforce/timesheet/?"+query.Encode(), &entries); err != nil {
		return nil, fmt.Errorf("failed to load week entries: %w", err)
	}
	return entries, nil
}

func (r *timesheetRepository) Create(ctx context.Context, req timesheet.CreateEntryRequest) (timesheet.Entry, error) {
	if err := req.Validate(); err != nil {
		return timesheet.Entry{}, err
	}

	var entry timesheet.Entry
	if err := r.api.Post(ctx, "/workforce/timesheet/", &req, &entry); err != nil {
		return timesheet.Entry{}, err
	}
	return entry, nil
}

func (r *timesheetRepository) Update(ctx context.Context, req timesheet.UpdateEntryRequest) (timesheet.Entry, error) {
	if err := req.Validate(); err != nil {
		return timesheet.Entry{}, err
	}

	var entry timesheet.Entry
	if err := r.api.Patch(ctx, "/workforce/timesheet/"+req.ID+"/", &req, &entry); err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.StatusCode == 404 {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, err
	}
	return entry, nil
}

func (r *timesheetRepository) Delete(ctx context.Context, id string) error {
	err := r.api.Delete(ctx, "/workforce/timesheet/"+id+"/")
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.StatusCode == 404 {
		return timesheet.ErrEntryNotFound
	}
	return err
}

func (r *timesheetRepository) Approve(ctx context.Context, id string) error {
	return r.api.Post(ctx, "/workforce/timesheet/"+id+"/approve/", nil, nil)
}

func (r *timesheetRepository) Reject(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	return r.api.Post(ctx, "/workforce/timesheet/"+id+"/reject/", body, nil)
}

// Clock punches go out on the device-key /kiosk routes, not the bearer
// /workforce/timesheet ones: a kiosk holds only a device key, and a 401 on
// a bearer route would tear down the whole user session.
func (r *timesheetRepository) ClockIn(ctx context.Context, req timesheet.ClockRequest) (timesheet.ClockResult, error) {
	if err := req.Validate(); err != nil {
		return timesheet.ClockResult{}, err
	}

	var result timesheet.ClockResult
	if err := r.api.Post(ctx, "/kiosk/clock_in/", &req, &result); err != nil {
		return timesheet.ClockResult{}, err
	}
	return result, nil
}

func (r *timesheetRepository) ClockOut(ctx context.Context, req timesheet.ClockRequest) (timesheet.ClockResult, error) {
	if err := req.Validate(); err != nil {
		return timesheet.ClockResult{}, err
	}

	var result timesheet.ClockResult
	if err := r.api.Post(ctx, "/kiosk/clock_out/", &req, &result); err != nil {
		return timesheet.ClockResult{}, err
	}
	return result, nil
}
