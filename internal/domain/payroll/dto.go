package payroll

import (
	"github.com/arcadehq/workforce-client-go/internal/pkg/validator"
)

type GenerateRequest struct {
	ShopID      string `json:"shop_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shop_id",
			Message: "shop_id is required",
		})
	}
	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	ShopID string
}
