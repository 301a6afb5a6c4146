package timesheet

import "errors"

var (
	ErrEntryNotFound    = errors.New("timesheet entry not found")
	ErrAlreadyProcessed = errors.New("timesheet entry has already been approved or rejected")
	ErrNotClockedIn     = errors.New("employee has not clocked in")
	ErrAlreadyClockedIn = errors.New("employee is already clocked in")
)
