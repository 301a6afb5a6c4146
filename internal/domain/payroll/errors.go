package payroll

import "errors"

var (
	ErrRunNotFound      = errors.New("payroll run not found")
	ErrPeriodOverlap    = errors.New("payroll period overlaps an existing run")
	ErrAlreadyFinalized = errors.New("payroll run has already been finalized")
)
