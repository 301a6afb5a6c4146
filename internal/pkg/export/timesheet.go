package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
)

var dayLabels = []any{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// TimesheetWorkbook writes one sheet holding a week of timesheet groups: a
// row per employee with day-hour columns, total, status, and (when a rate is
// known) the gross amount for the week.
func TimesheetWorkbook(w io.Writer, weekStart string, groups []*timesheet.WeekGroup, rates map[string]decimal.Decimal) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	sheet := fmt.Sprintf("Week of %s", weekStart)
	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := append([]any{"Employee"}, dayLabels...)
	header = append(header, "Total", "Status", "Gross")
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, group := range groups {
		cells := []any{group.EmployeeName}
		for _, day := range group.Days {
			if day == nil || day.EntryID == nil || day.ToDelete {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, day.Hours)
		}
		cells = append(cells, group.TotalHours(), string(group.Status()))

		if rate, ok := rates[group.EmployeeID]; ok {
			gross := rate.Mul(decimal.NewFromFloat(group.TotalHours()))
			cells = append(cells, gross.InexactFloat64())
		} else {
			cells = append(cells, "")
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	return file.Write(w)
}
