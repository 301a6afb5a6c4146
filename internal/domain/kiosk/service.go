package kiosk

import "context"

// Service is the kiosk-side business logic the local HTTP surface exposes.
type Service interface {
	// Activate exchanges an activation code for a device key and persists it.
	Activate(ctx context.Context, req ActivateRequest) error

	// Activated reports whether this kiosk holds a device key.
	Activated() bool

	// ClockIn and ClockOut forward clock actions to the platform, degrading
	// to the offline queue when the API is unreachable.
	ClockIn(ctx context.Context, employeeCode string) (ClockResponse, error)
	ClockOut(ctx context.Context, employeeCode string) (ClockResponse, error)

	// Register captures a customer registration, offline-queueable.
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)

	// VerifySupervisorPIN checks the local override PIN.
	VerifySupervisorPIN(pin string) error
}
