package kiosk

import "errors"

var (
	ErrNotActivated          = errors.New("kiosk has not been activated")
	ErrAlreadyActivated      = errors.New("kiosk is already activated")
	ErrInvalidActivationCode = errors.New("activation code is invalid or expired")
	ErrInvalidPIN            = errors.New("supervisor pin is incorrect")
	ErrPINNotConfigured      = errors.New("supervisor pin is not configured")
)
