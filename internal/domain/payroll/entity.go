package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type RunStatus string

const (
	RunStatusDraft     RunStatus = "draft"
	RunStatusFinalized RunStatus = "finalized"
	RunStatusPaid      RunStatus = "paid"
)

// Run is one payroll period for a shop.
type Run struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	Status      RunStatus `json:"status"`
	GeneratedAt time.Time `json:"generated_at"`
	Lines       []Line    `json:"lines,omitempty"`
}

// Line is one employee's pay within a run.
type Line struct {
	EmployeeID    string          `json:"employee"`
	EmployeeName  string          `json:"employee_name"`
	RegularHours  float64         `json:"regular_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
}
