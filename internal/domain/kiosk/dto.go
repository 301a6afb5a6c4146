package kiosk

import (
	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
	"github.com/arcadehq/workforce-client-go/internal/pkg/validator"
)

type ActivateRequest struct {
	ActivationCode string `json:"activation_code"`
	ShopID         string `json:"shop_id"`
}

func (r *ActivateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidActivationCode(r.ActivationCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "activation_code",
			Message: "activation_code must match the XXXX-XXXX-XXXX format",
		})
	}
	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shop_id",
			Message: "shop_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ActivateResponse struct {
	DeviceKey string `json:"device_key"`
}

type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}
	if r.BirthDate != "" {
		if _, ok := validator.IsValidDate(r.BirthDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "birth_date",
				Message: "birth_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SupervisorUnlockRequest struct {
	PIN string `json:"pin"`
}

func (r *SupervisorUnlockRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.PIN) < 4 || !validator.IsNumeric(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be at least 4 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ClockResponse is what the kiosk UI shows after a clock action. Queued is
// set when the action was captured offline and will sync later.
type ClockResponse struct {
	Queued  bool                   `json:"queued"`
	Message string                 `json:"message"`
	Result  *timesheet.ClockResult `json:"result,omitempty"`
}

// RegisterResponse acknowledges a customer registration.
type RegisterResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}
