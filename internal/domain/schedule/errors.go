package schedule

import "errors"

var (
	ErrShiftNotFound   = errors.New("shift not found")
	ErrTemplateUnknown = errors.New("shift does not match any known template slot")
	ErrWeekLocked      = errors.New("week schedule is locked")
)
