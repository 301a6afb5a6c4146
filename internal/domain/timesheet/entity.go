package timesheet

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arcadehq/workforce-client-go/internal/pkg/week"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// GroupStatus is the aggregate status of a week group. It equals the shared
// member status only when all members agree; otherwise the group is MIXED.
type GroupStatus string

const (
	GroupPending  GroupStatus = "PENDING"
	GroupApproved GroupStatus = "APPROVED"
	GroupRejected GroupStatus = "REJECTED"
	GroupMixed    GroupStatus = "MIXED"
)

// Entry is one employee-day of recorded hours as the server models it.
type Entry struct {
	ID           string       `json:"id"`
	EmployeeID   string       `json:"employee"`
	EmployeeName string       `json:"employee_name,omitempty"`
	ShopID       string       `json:"shop_id"`
	Date         string       `json:"date"`
	Hours        float64      `json:"hours"`
	Status       Status       `json:"status"`
	Notes        string       `json:"notes,omitempty"`
	EditHistory  []EditRecord `json:"edit_history,omitempty"`
}

// EditRecord is one structured audit entry for an hours change. History
// reconstruction reads these records, never the rendered note text.
type EditRecord struct {
	Date     string    `json:"date"`
	OldHours float64   `json:"old_hours"`
	NewHours float64   `json:"new_hours"`
	EditedAt time.Time `json:"edited_at"`
}

// Note renders the record for human eyes, e.g. "[EDITED] Mon 7/14: 8h -> 6h".
func (r EditRecord) Note() string {
	label := r.Date
	if day, err := week.ParseDate(r.Date); err == nil {
		label = week.DayLabel(day)
	}
	return fmt.Sprintf("[EDITED] %s: %sh -> %sh", label, formatHours(r.OldHours), formatHours(r.NewHours))
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// WeekGroup is the editable local mirror of one employee's week: seven day
// cells tracking which differ from the server-confirmed state.
type WeekGroup struct {
	EmployeeID   string
	EmployeeName string
	ShopID       string
	WeekStart    string
	Days         [7]*DayCell
}

// DayCell is one day bucket. A nil EntryID means the cell holds local-only
// hours not yet persisted.
type DayCell struct {
	Date          string
	EntryID       *string
	Hours         float64
	OriginalHours float64
	Status        Status
	Notes         string
	EditHistory   []EditRecord
	Dirty         bool
	ToDelete      bool
}

// SetHours records a local edit. Editing back to the server value clears the
// dirty flag; changing a previously approved or rejected day appends a
// structured edit record so approval can be re-requested with an audit trail.
func (c *DayCell) SetHours(hours float64, now time.Time) {
	if c.ToDelete {
		c.ToDelete = false
	}

	if c.EntryID != nil && hours == c.OriginalHours {
		c.Hours = hours
		c.Dirty = false
		return
	}

	if c.EntryID != nil && (c.Status == StatusApproved || c.Status == StatusRejected) && hours != c.Hours {
		c.EditHistory = append(c.EditHistory, EditRecord{
			Date:     c.Date,
			OldHours: c.Hours,
			NewHours: hours,
			EditedAt: now,
		})
	}

	c.Hours = hours
	c.Dirty = true
}

// Remove clears the cell. A persisted entry is only marked for deletion,
// deferred to the batch save; a local-only cell resets silently and never
// produces a delete call.
func (c *DayCell) Remove() {
	if c.EntryID == nil {
		c.Hours = 0
		c.Dirty = false
		c.EditHistory = nil
		return
	}
	c.ToDelete = true
	c.Dirty = true
}

// Status aggregates the member statuses: unanimous or MIXED. Cells without a
// persisted entry are outside the approval workflow and do not count.
func (g *WeekGroup) Status() GroupStatus {
	var agreed Status
	seen := false
	for _, c := range g.Days {
		if c == nil || c.EntryID == nil || c.ToDelete {
			continue
		}
		if !seen {
			agreed = c.Status
			seen = true
			continue
		}
		if c.Status != agreed {
			return GroupMixed
		}
	}
	if !seen {
		return GroupPending
	}
	return GroupStatus(agreed)
}

// DirtyCount reports how many cells differ from the server state.
func (g *WeekGroup) DirtyCount() int {
	count := 0
	for _, c := range g.Days {
		if c != nil && c.Dirty {
			count++
		}
	}
	return count
}

// TotalHours sums the group's visible hours, excluding cells marked for
// deletion.
func (g *WeekGroup) TotalHours() float64 {
	var total float64
	for _, c := range g.Days {
		if c != nil && !c.ToDelete {
			total += c.Hours
		}
	}
	return total
}
