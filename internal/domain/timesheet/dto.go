package timesheet

import (
	"github.com/arcadehq/workforce-client-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	Employee string  `json:"employee"`
	ShopID   string  `json:"shop_id"`
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Notes    string  `json:"notes,omitempty"`
	Status   Status  `json:"status"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Employee) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee",
			Message: "employee is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if !validator.IsValidHours(r.Hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEntryRequest struct {
	ID          string       `json:"-"`
	Hours       float64      `json:"hours"`
	Notes       string       `json:"notes,omitempty"`
	Status      Status       `json:"status"`
	EditHistory []EditRecord `json:"edit_history,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if !validator.IsValidHours(r.Hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockRequest struct {
	EmployeeCode string `json:"employee_code"`
	ShopID       string `json:"shop_id"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must match the NNNN-NNNN format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ClockResult is the server acknowledgement of a clock action.
type ClockResult struct {
	EntryID      string `json:"entry_id"`
	EmployeeName string `json:"employee_name"`
	Direction    string `json:"direction"`
	At           string `json:"at"`
}

// SaveResult aggregates a batch save. Entries are persisted one at a time in
// array order with isolated failures, so earlier successes stand even when a
// later entry fails.
type SaveResult struct {
	Created  int
	Updated  int
	Deleted  int
	Failures []SaveFailure
}

type SaveFailure struct {
	EmployeeName string
	Date         string
	Message      string
}

func (r SaveResult) Ok() bool { return len(r.Failures) == 0 }

// ApprovalResult aggregates a group approve/reject: per-entry calls with no
// atomicity across the group.
type ApprovalResult struct {
	Transitioned int
	Skipped      int
	Failures     []SaveFailure
}

func (r ApprovalResult) Ok() bool { return len(r.Failures) == 0 }
