package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arcadehq/workforce-client-go/internal/domain/payroll"
)

func testRun(periodStart string, lines []payroll.Line) payroll.Run {
	return payroll.Run{
		ID:          "run-" + periodStart,
		ShopID:      "shop-1",
		PeriodStart: periodStart,
		PeriodEnd:   periodStart,
		Status:      payroll.RunStatusFinalized,
		GeneratedAt: time.Now(),
		Lines:       lines,
	}
}

func TestPayrollWorkbook_WritesRowsAndTotals(t *testing.T) {
	run := testRun("2025-07-14", []payroll.Line{
		{
			EmployeeName: "Jane Doe", RegularHours: 40, OvertimeHours: 2,
			HourlyRate: decimal.NewFromFloat(18.50),
			GrossPay:   decimal.NewFromFloat(795.50),
		},
		{
			EmployeeName: "Bob Lee", RegularHours: 32,
			HourlyRate: decimal.NewFromFloat(16),
			GrossPay:   decimal.NewFromFloat(512),
		},
	})

	var buf bytes.Buffer
	require.NoError(t, PayrollWorkbook(&buf, []payroll.Run{run}))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	assert.Equal(t, "Week of 2025-07-14", sheet)

	rows, err := file.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 lines + totals

	assert.Equal(t, "Employee", rows[0][0])
	assert.Equal(t, "Jane Doe", rows[1][0])
	assert.Equal(t, "Bob Lee", rows[2][0])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "72", rows[3][1])
	assert.Equal(t, "1307.5", rows[3][4])
}

func TestPayrollWorkbook_OneSheetPerRun(t *testing.T) {
	runs := []payroll.Run{
		testRun("2025-07-14", nil),
		testRun("2025-07-21", nil),
	}

	var buf bytes.Buffer
	require.NoError(t, PayrollWorkbook(&buf, runs))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	assert.Equal(t, []string{"Week of 2025-07-14", "Week of 2025-07-21"}, file.GetSheetList())
}

func TestPayrollWorkbook_RejectsEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PayrollWorkbook(&buf, nil))
}
