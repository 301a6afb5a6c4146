package rest

import (
	"context"
	"errors"

	"github.com/arcadehq/workforce-client-go/internal/domain/kiosk"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

// KioskRepository covers the kiosk-scoped platform endpoints: activation and
// customer registration. Clock actions live on the timesheet repository.
type KioskRepository interface {
	Activate(ctx context.Context, req kiosk.ActivateRequest) (kiosk.ActivateResponse, error)
	Register(ctx context.Context, reg kiosk.Registration) error
}

type kioskRepository struct {
	api *apiclient.Client
}

func NewKioskRepository(api *apiclient.Client) KioskRepository {
	return &kioskRepository{api: api}
}

func (r *kioskRepository) Activate(ctx context.Context, req kiosk.ActivateRequest) (kiosk.ActivateResponse, error) {
	var resp kiosk.ActivateResponse
	if err := r.api.Post(ctx, "/kiosk/activate", &req, &resp); err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && (apiErr.StatusCode == 400 || apiErr.StatusCode == 404) {
			return kiosk.ActivateResponse{}, kiosk.ErrInvalidActivationCode
		}
		return kiosk.ActivateResponse{}, err
	}
	if resp.DeviceKey == "" {
		return kiosk.ActivateResponse{}, errors.New("activation response missing device key")
	}
	return resp, nil
}

func (r *kioskRepository) Register(ctx context.Context, reg kiosk.Registration) error {
	return r.api.Post(ctx, "/kiosk/registrations/", &reg, nil)
}
