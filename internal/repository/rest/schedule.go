package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/arcadehq/workforce-client-go/internal/domain/schedule"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

type scheduleRepository struct {
	api *apiclient.Client
}

func NewScheduleRepository(api *apiclient.Client) schedule.Repository {
	return &scheduleRepository{api: api}
}

func (r *scheduleRepository) WeekSchedule(ctx context.Context, shopID, weekStart string) (schedule.WeekScheduleResponse, error) {
	query := url.Values{}
	query.Set("shop_id", shopID)
	query.Set("week_start", weekStart)

	var resp schedule.WeekScheduleResponse
	if err := r.api.Get(ctx, "/workforce/schedules/week/?"+query.Encode(), &resp); err != nil {
		return schedule.WeekScheduleResponse{}, fmt.Errorf("failed to load week schedule: %w", err)
	}
	return resp, nil
}

func (r *scheduleRepository) CreateShift(ctx context.Context, req schedule.CreateShiftRequest) (schedule.Shift, error) {
	if err := req.Validate(); err != nil {
		return schedule.Shift{}, err
	}

	var shift schedule.Shift
	if err := r.api.Post(ctx, "/workforce/schedules/", &req, &shift); err != nil {
		return schedule.Shift{}, err
	}
	return shift, nil
}

func (r *scheduleRepository) DeleteShift(ctx context.Context, id string) error {
	err := r.api.Delete(ctx, "/workforce/schedules/"+id+"/")
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.StatusCode == 404 {
		return schedule.ErrShiftNotFound
	}
	return err
}

func (r *scheduleRepository) CopyWeek(ctx context.Context, req schedule.CopyWeekRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return r.api.Post(ctx, "/workforce/schedules/copy_week/", &req, nil)
}
