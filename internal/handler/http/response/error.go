package response

import (
	"errors"
	"net/http"

	"github.com/arcadehq/workforce-client-go/internal/domain/kiosk"
	"github.com/arcadehq/workforce-client-go/internal/domain/schedule"
	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/validator"
)

// HandleError maps domain and upstream errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Upstream platform errors pass through with their normalized message
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.IsValidation() {
			details := make(map[string]string, len(apiErr.FieldErrors))
			for field, msgs := range apiErr.FieldErrors {
				if len(msgs) > 0 {
					details[field] = msgs[0]
				}
			}
			BadRequest(w, apiErr.Message, details)
			return
		}
		if apiErr.StatusCode == http.StatusUnauthorized {
			Unauthorized(w, apiErr.Message)
			return
		}
		BadGateway(w, apiErr.Message, nil)
		return
	}

	// Kiosk domain errors
	switch {
	case errors.Is(err, kiosk.ErrNotActivated):
		Forbidden(w, "Kiosk is not activated")
	case errors.Is(err, kiosk.ErrAlreadyActivated):
		Conflict(w, "Kiosk is already activated")
	case errors.Is(err, kiosk.ErrInvalidActivationCode):
		BadRequest(w, "Activation code is invalid or expired", nil)
	case errors.Is(err, kiosk.ErrInvalidPIN):
		Unauthorized(w, "Supervisor PIN is incorrect")
	case errors.Is(err, kiosk.ErrPINNotConfigured):
		Forbidden(w, "Supervisor PIN is not configured on this kiosk")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Timesheet entry not found")
	case errors.Is(err, timesheet.ErrAlreadyProcessed):
		Conflict(w, "Timesheet entry already processed")
	case errors.Is(err, timesheet.ErrNotClockedIn):
		Conflict(w, "Employee is not clocked in")
	case errors.Is(err, timesheet.ErrAlreadyClockedIn):
		Conflict(w, "Employee is already clocked in")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, schedule.ErrWeekLocked):
		Conflict(w, "Week is locked for editing")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
