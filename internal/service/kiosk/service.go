package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arcadehq/workforce-client-go/internal/domain/kiosk"
	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/session"
	"github.com/arcadehq/workforce-client-go/internal/repository/rest"
)

const queuedMessage = "saved on this kiosk and will sync once the connection is back"

// Feed receives kiosk lifecycle events for the local UI.
type Feed interface {
	Publish(eventType string, data any)
}

type kioskService struct {
	shopID            string
	supervisorPINHash string

	repo       rest.KioskRepository
	timesheets timesheet.Repository
	session    *session.Manager
	feed       Feed
	logger     *slog.Logger
	now        func() time.Time
}

type Options struct {
	ShopID            string
	SupervisorPINHash string
	Repo              rest.KioskRepository
	Timesheets        timesheet.Repository
	Session           *session.Manager
	Feed              Feed
	Logger            *slog.Logger
}

func NewKioskService(opts Options) kiosk.Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &kioskService{
		shopID:            opts.ShopID,
		supervisorPINHash: opts.SupervisorPINHash,
		repo:              opts.Repo,
		timesheets:        opts.Timesheets,
		session:           opts.Session,
		feed:              opts.Feed,
		logger:            logger,
		now:               time.Now,
	}
}

// Activate implements kiosk.Service.
func (s *kioskService) Activate(ctx context.Context, req kiosk.ActivateRequest) error {
	if s.Activated() {
		return kiosk.ErrAlreadyActivated
	}
	if req.ShopID == "" {
		req.ShopID = s.shopID
	}
	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := s.repo.Activate(ctx, req)
	if err != nil {
		return err
	}
	if err := s.session.SetDeviceToken(resp.DeviceKey); err != nil {
		return fmt.Errorf("activation succeeded but device key could not be stored: %w", err)
	}

	s.logger.Info("kiosk activated", "shop_id", req.ShopID)
	s.publish("kiosk.activated", map[string]string{"shop_id": req.ShopID})
	return nil
}

// Activated implements kiosk.Service.
func (s *kioskService) Activated() bool {
	return s.session.DeviceToken() != ""
}

// ClockIn implements kiosk.Service.
func (s *kioskService) ClockIn(ctx context.Context, employeeCode string) (kiosk.ClockResponse, error) {
	return s.clock(ctx, employeeCode, "in", s.timesheets.ClockIn)
}

// ClockOut implements kiosk.Service.
func (s *kioskService) ClockOut(ctx context.Context, employeeCode string) (kiosk.ClockResponse, error) {
	return s.clock(ctx, employeeCode, "out", s.timesheets.ClockOut)
}

func (s *kioskService) clock(ctx context.Context, employeeCode, direction string, call func(context.Context, timesheet.ClockRequest) (timesheet.ClockResult, error)) (kiosk.ClockResponse, error) {
	if !s.Activated() {
		return kiosk.ClockResponse{}, kiosk.ErrNotActivated
	}

	req := timesheet.ClockRequest{EmployeeCode: employeeCode, ShopID: s.shopID}
	if err := req.Validate(); err != nil {
		return kiosk.ClockResponse{}, err
	}

	result, err := call(ctx, req)
	if err != nil {
		if errors.Is(err, apiclient.ErrQueuedOffline) {
			s.logger.Info("clock action captured offline",
				"direction", direction, "employee_code", employeeCode)
			s.publish("clock.queued", map[string]string{
				"direction":     direction,
				"employee_code": employeeCode,
			})
			return kiosk.ClockResponse{Queued: true, Message: queuedMessage}, nil
		}
		return kiosk.ClockResponse{}, err
	}

	s.publish("clock.recorded", result)
	return kiosk.ClockResponse{
		Message: fmt.Sprintf("clocked %s at %s", result.Direction, result.At),
		Result:  &result,
	}, nil
}

// Register implements kiosk.Service.
func (s *kioskService) Register(ctx context.Context, req kiosk.RegisterRequest) (kiosk.RegisterResponse, error) {
	if !s.Activated() {
		return kiosk.RegisterResponse{}, kiosk.ErrNotActivated
	}
	if err := req.Validate(); err != nil {
		return kiosk.RegisterResponse{}, err
	}

	reg := kiosk.Registration{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		BirthDate:      req.BirthDate,
		MarketingOptIn: req.MarketingOptIn,
		CapturedAt:     s.now().UTC(),
	}
	if err := s.repo.Register(ctx, reg); err != nil {
		if errors.Is(err, apiclient.ErrQueuedOffline) {
			s.publish("registration.queued", map[string]string{"email": reg.Email})
			return kiosk.RegisterResponse{Queued: true, Message: queuedMessage}, nil
		}
		return kiosk.RegisterResponse{}, err
	}

	s.publish("registration.recorded", map[string]string{"email": reg.Email})
	return kiosk.RegisterResponse{Message: "registration saved"}, nil
}

// VerifySupervisorPIN implements kiosk.Service.
func (s *kioskService) VerifySupervisorPIN(pin string) error {
	if s.supervisorPINHash == "" {
		return kiosk.ErrPINNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.supervisorPINHash), []byte(pin)); err != nil {
		return kiosk.ErrInvalidPIN
	}
	return nil
}

func (s *kioskService) publish(eventType string, data any) {
	if s.feed != nil {
		s.feed.Publish(eventType, data)
	}
}
