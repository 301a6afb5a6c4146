// Package export renders payroll runs as spreadsheet workbooks for handoff
// to bookkeeping.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/arcadehq/workforce-client-go/internal/domain/payroll"
)

var payrollHeader = []any{
	"Employee", "Regular Hours", "Overtime Hours", "Hourly Rate", "Gross Pay",
}

// PayrollWorkbook writes one sheet per run, named by period start, with an
// employee row per pay line and a totals row at the bottom.
func PayrollWorkbook(w io.Writer, runs []payroll.Run) error {
	if len(runs) == 0 {
		return fmt.Errorf("no payroll runs to export")
	}

	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	for i, run := range runs {
		sheet := sheetName(run)
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
				return err
			}
		} else {
			if _, err := file.NewSheet(sheet); err != nil {
				return err
			}
		}
		if err := writeRun(file, sheet, run); err != nil {
			return fmt.Errorf("write sheet %s: %w", sheet, err)
		}
	}

	return file.Write(w)
}

func sheetName(run payroll.Run) string {
	// Sheet names cap at 31 characters; "Week of YYYY-MM-DD" fits.
	return fmt.Sprintf("Week of %s", run.PeriodStart)
}

func writeRun(file *excelize.File, sheet string, run payroll.Run) error {
	if err := file.SetSheetRow(sheet, "A1", &payrollHeader); err != nil {
		return err
	}

	var totalRegular, totalOvertime float64
	var totalGross decimal.Decimal

	row := 2
	for _, line := range run.Lines {
		cells := []any{
			line.EmployeeName,
			line.RegularHours,
			line.OvertimeHours,
			line.HourlyRate.InexactFloat64(),
			line.GrossPay.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
		totalRegular += line.RegularHours
		totalOvertime += line.OvertimeHours
		totalGross = totalGross.Add(line.GrossPay)
		row++
	}

	totals := []any{"Total", totalRegular, totalOvertime, "", totalGross.InexactFloat64()}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return file.SetSheetRow(sheet, cell, &totals)
}
