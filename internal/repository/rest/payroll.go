package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/arcadehq/workforce-client-go/internal/domain/payroll"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

type payrollRepository struct {
	api *apiclient.Client
}

func NewPayrollRepository(api *apiclient.Client) payroll.Repository {
	return &payrollRepository{api: api}
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Run, error) {
	path := "/workforce/payroll/"
	if filter.ShopID != "" {
		query := url.Values{}
		query.Set("shop_id", filter.ShopID)
		path += "?" + query.Encode()
	}

	var runs []payroll.Run
	if err := r.api.Get(ctx, path, &runs); err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	return runs, nil
}

func (r *payrollRepository) Get(ctx context.Context, id string) (payroll.Run, error) {
	var run payroll.Run
	if err := r.api.Get(ctx, "/workforce/payroll/"+id+"/", &run); err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.StatusCode == 404 {
			return payroll.Run{}, payroll.ErrRunNotFound
		}
		return payroll.Run{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRepository) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.Run, error) {
	if err := req.Validate(); err != nil {
		return payroll.Run{}, err
	}

	var run payroll.Run
	if err := r.api.Post(ctx, "/workforce/payroll/generate/", &req, &run); err != nil {
		return payroll.Run{}, err
	}
	return run, nil
}
