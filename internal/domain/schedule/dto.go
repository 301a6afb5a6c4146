package schedule

import (
	"github.com/arcadehq/workforce-client-go/internal/pkg/validator"
)

// WeekScheduleResponse is the authoritative week as served by
// GET /workforce/schedules/week/.
type WeekScheduleResponse struct {
	ShopID    string          `json:"shop_id"`
	WeekStart string          `json:"week_start"`
	Templates []ShiftTemplate `json:"templates"`
	Shifts    []Shift         `json:"shifts"`
}

type CreateShiftRequest struct {
	Employee  string `json:"employee"`
	ShopID    string `json:"shop_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Employee) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee",
			Message: "employee is required",
		})
	}
	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shop_id",
			Message: "shop_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if !validator.IsValidTimeOfDay(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}
	if !validator.IsValidTimeOfDay(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CopyWeekRequest struct {
	ShopID        string `json:"shop_id"`
	FromWeekStart string `json:"from_week_start"`
	ToWeekStart   string `json:"to_week_start"`
}

func (r *CopyWeekRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shop_id",
			Message: "shop_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.FromWeekStart); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from_week_start",
			Message: "from_week_start must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.ToWeekStart); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to_week_start",
			Message: "to_week_start must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveResult aggregates the outcome of a batch save. Partial failures do not
// roll back: applied calls stay applied and the failures are reported
// entry-by-entry.
type SaveResult struct {
	Created  int
	Deleted  int
	Failures []SaveFailure
}

type SaveFailure struct {
	EmployeeName string
	Date         string
	Message      string
}

func (r SaveResult) Ok() bool { return len(r.Failures) == 0 }
