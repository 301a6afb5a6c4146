package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arcadehq/workforce-client-go/internal/domain/kiosk"
	"github.com/arcadehq/workforce-client-go/internal/handler/http/response"
	"github.com/arcadehq/workforce-client-go/internal/pkg/localtoken"
)

type KioskHandler interface {
	Activate(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	SupervisorUnlock(w http.ResponseWriter, r *http.Request)
}

type KioskHandlerImpl struct {
	kioskService kiosk.Service
	tokenService localtoken.Service
	kioskID      string
}

func NewKioskHandler(kioskService kiosk.Service, tokenService localtoken.Service, kioskID string) KioskHandler {
	return &KioskHandlerImpl{
		kioskService: kioskService,
		tokenService: tokenService,
		kioskID:      kioskID,
	}
}

// Activate implements KioskHandler.
func (h *KioskHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	var req kiosk.ActivateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Activate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.kioskService.Activate(r.Context(), req); err != nil {
		slog.Error("Activate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Kiosk activated", nil)
}

// Status implements KioskHandler.
func (h *KioskHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]bool{"activated": h.kioskService.Activated()})
}

// ClockIn implements KioskHandler.
func (h *KioskHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.kioskService.ClockIn)
}

// ClockOut implements KioskHandler.
func (h *KioskHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.kioskService.ClockOut)
}

type clockBody struct {
	EmployeeCode string `json:"employee_code"`
}

func (h *KioskHandlerImpl) clock(w http.ResponseWriter, r *http.Request, call func(ctx context.Context, employeeCode string) (kiosk.ClockResponse, error)) {
	var body clockBody

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Clock decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := call(r.Context(), body.EmployeeCode)
	if err != nil {
		slog.Error("Clock service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if resp.Queued {
		response.Accepted(w, resp.Message, resp)
		return
	}
	response.Success(w, resp)
}

// Register implements KioskHandler.
func (h *KioskHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req kiosk.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.kioskService.Register(r.Context(), req)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if resp.Queued {
		response.Accepted(w, resp.Message, resp)
		return
	}
	response.Created(w, resp.Message, resp)
}

// SupervisorUnlock implements KioskHandler.
func (h *KioskHandlerImpl) SupervisorUnlock(w http.ResponseWriter, r *http.Request) {
	var req kiosk.SupervisorUnlockRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SupervisorUnlock decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.kioskService.VerifySupervisorPIN(req.PIN); err != nil {
		slog.Warn("SupervisorUnlock rejected", "error", err)
		response.HandleError(w, err)
		return
	}

	token, expiresAt, err := h.tokenService.GenerateSupervisorToken(h.kioskID)
	if err != nil {
		slog.Error("SupervisorUnlock token error", "error", err)
		response.InternalServerError(w, "Failed to issue supervisor token")
		return
	}

	response.Success(w, map[string]any{
		"token":      token,
		"expires_at": expiresAt,
	})
}
