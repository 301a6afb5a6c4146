// Package week provides the calendar arithmetic shared by the schedule and
// timesheet views: locating the Monday of a week and formatting date keys.
//
// All computations run in the viewer's local calendar. Date keys are built
// from local year/month/day components, never by converting through UTC, so
// a grid rendered at 23:30 in UTC+12 and one rendered at 00:30 in UTC-8 both
// label the same calendar day the same way.
package week

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for day keys.
const DateFormat = "2006-01-02"

// Start returns the Monday of the week containing today, shifted by offset
// weeks. Sunday counts as day 0, so the Monday of Sunday's week is the
// previous day's week start, not the next day.
func Start(today time.Time, offset int) time.Time {
	dayOfWeek := int(today.Weekday()) // Sunday == 0
	monday := today.AddDate(0, 0, -((dayOfWeek+6)%7)+7*offset)
	return Truncate(monday)
}

// Truncate drops the time-of-day portion, keeping the location.
func Truncate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as YYYY-MM-DD using its local components.
func FormatDate(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDate parses a YYYY-MM-DD key in the local calendar, inverse of
// FormatDate.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.Local)
}

// Dates returns the seven day keys of the week starting at start.
func Dates(start time.Time) [7]string {
	var dates [7]string
	for i := range dates {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates
}

// DayLabel renders the short label used in audit notes, e.g. "Mon 7/14".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s %d/%d", t.Format("Mon"), int(t.Month()), t.Day())
}
