// Package rest implements the domain repositories over the platform's REST
// API through the resilient API client.
package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/arcadehq/workforce-client-go/internal/domain/employee"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

type employeeRepository struct {
	api *apiclient.Client
}

func NewEmployeeRepository(api *apiclient.Client) employee.Repository {
	return &employeeRepository{api: api}
}

// employeeDTO mirrors the wire shape of an employee record.
type employeeDTO struct {
	ID           string  `json:"id"`
	ShopID       string  `json:"shop_id"`
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	PhoneNumber  string  `json:"phone_number"`
	Position     string  `json:"position"`
	HourlyRate   string  `json:"hourly_rate"`
	HireDate     *string `json:"hire_date"`
	Active       bool    `json:"active"`
}

func (r *employeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	query := url.Values{}
	if filter.ShopID != "" {
		query.Set("shop_id", filter.ShopID)
	}
	if filter.ActiveOnly {
		query.Set("active", "true")
	}

	path := "/workforce/employees/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var dtos []employeeDTO
	if err := r.api.Get(ctx, path, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(dtos))
	for _, dto := range dtos {
		emp, err := dto.toEntity()
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func (r *employeeRepository) Get(ctx context.Context, id string) (employee.Employee, error) {
	var dto employeeDTO
	if err := r.api.Get(ctx, "/workforce/employees/"+id+"/", &dto); err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.StatusCode == 404 {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return dto.toEntity()
}

func (dto employeeDTO) toEntity() (employee.Employee, error) {
	emp := employee.Employee{
		ID:           dto.ID,
		ShopID:       dto.ShopID,
		EmployeeCode: dto.EmployeeCode,
		FullName:     dto.FullName,
		Email:        dto.Email,
		PhoneNumber:  dto.PhoneNumber,
		Position:     employee.Position(dto.Position),
		Active:       dto.Active,
	}

	if dto.HourlyRate != "" {
		rate, err := parseDecimal(dto.HourlyRate)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("invalid hourly_rate for employee %s: %w", dto.ID, err)
		}
		emp.HourlyRate = rate
	}
	if dto.HireDate != nil {
		hired, err := parseDate(*dto.HireDate)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("invalid hire_date for employee %s: %w", dto.ID, err)
		}
		emp.HireDate = &hired
	}
	return emp, nil
}
