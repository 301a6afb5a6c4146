package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	ShopID       string
	EmployeeCode string
	FullName     string
	Email        string
	PhoneNumber  string
	Position     Position
	HourlyRate   decimal.Decimal
	HireDate     *time.Time
	Active       bool
}

type Position string

const (
	PositionAttendant  Position = "attendant"
	PositionTechnician Position = "technician"
	PositionSupervisor Position = "supervisor"
	PositionManager    Position = "manager"
)

var PositionValues = []string{
	string(PositionAttendant),
	string(PositionTechnician),
	string(PositionSupervisor),
	string(PositionManager),
}
