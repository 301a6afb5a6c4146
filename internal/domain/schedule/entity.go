package schedule

import "time"

// ShiftTemplate is a named recurring time slot a shop staffs every day,
// e.g. "Floor AM" 09:00-17:00.
type ShiftTemplate struct {
	ID        string `json:"id"`
	ShopID    string `json:"shop_id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM"
}

// Shift is one persisted assignment: an employee covering a template slot on
// a concrete date.
type Shift struct {
	ID           string `json:"id"`
	ShopID       string `json:"shop_id"`
	EmployeeID   string `json:"employee"`
	EmployeeName string `json:"employee_name,omitempty"`
	Date         string `json:"date"` // "YYYY-MM-DD"
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// Grid is the editable local mirror of one week's schedule: seven days of
// template cells, each holding employee assignments. The grid tracks which
// assignments differ from the server-confirmed state so a save can submit
// only the deltas.
type Grid struct {
	ShopID    string
	WeekStart time.Time
	Dates     [7]string
	Templates []ShiftTemplate
	Cells     []*Cell
}

// Cell is one (date, template) slot in the grid.
type Cell struct {
	TemplateID   string
	TemplateName string
	Date         string
	StartTime    string
	EndTime      string
	Assignments  []*Assignment
}

// Assignment is an employee chip inside a cell. A nil ShiftID means the
// assignment exists only locally and has not been persisted yet.
type Assignment struct {
	EmployeeID   string
	EmployeeName string
	ShiftID      *string
	ToDelete     bool
	Dirty        bool
}

// Cell lookup by date and template.
func (g *Grid) Cell(date, templateID string) *Cell {
	for _, cell := range g.Cells {
		if cell.Date == date && cell.TemplateID == templateID {
			return cell
		}
	}
	return nil
}

// Assign adds an employee to a cell as a local, unsaved assignment. Adding
// an employee already present in the cell is a no-op; re-adding one marked
// for deletion cancels the deletion instead.
func (c *Cell) Assign(employeeID, employeeName string) {
	for _, a := range c.Assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		if a.ToDelete {
			a.ToDelete = false
			a.Dirty = a.ShiftID == nil
		}
		return
	}
	c.Assignments = append(c.Assignments, &Assignment{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Dirty:        true,
	})
}

// Unassign removes an employee from a cell. A persisted assignment is only
// marked for deletion, deferred to the batch save so the user can undo; a
// local-only one vanishes silently and never produces a delete call.
func (c *Cell) Unassign(employeeID string) {
	for i, a := range c.Assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		if a.ShiftID == nil {
			c.Assignments = append(c.Assignments[:i], c.Assignments[i+1:]...)
		} else {
			a.ToDelete = true
			a.Dirty = true
		}
		return
	}
}

// DirtyCount reports how many assignments differ from the server state.
func (g *Grid) DirtyCount() int {
	count := 0
	for _, cell := range g.Cells {
		for _, a := range cell.Assignments {
			if a.Dirty {
				count++
			}
		}
	}
	return count
}
