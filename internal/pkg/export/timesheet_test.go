package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
)

func TestTimesheetWorkbook_WritesGroupRows(t *testing.T) {
	entryID := "e1"
	group := &timesheet.WeekGroup{
		EmployeeID:   "emp-jane",
		EmployeeName: "Jane Doe",
		ShopID:       "shop-1",
		WeekStart:    "2025-07-14",
	}
	dates := []string{
		"2025-07-14", "2025-07-15", "2025-07-16",
		"2025-07-17", "2025-07-18", "2025-07-19", "2025-07-20",
	}
	for i, d := range dates {
		group.Days[i] = &timesheet.DayCell{Date: d}
	}
	group.Days[0].EntryID = &entryID
	group.Days[0].Hours = 8
	group.Days[0].Status = timesheet.StatusApproved

	rates := map[string]decimal.Decimal{"emp-jane": decimal.NewFromFloat(18.50)}

	var buf bytes.Buffer
	require.NoError(t, TimesheetWorkbook(&buf, "2025-07-14", []*timesheet.WeekGroup{group}, rates))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows("Week of 2025-07-14")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Employee", rows[0][0])
	assert.Equal(t, "Mon", rows[0][1])
	assert.Equal(t, "Jane Doe", rows[1][0])
	assert.Equal(t, "8", rows[1][1])
	// Total, status, and gross (8h * 18.50)
	assert.Equal(t, "8", rows[1][8])
	assert.Equal(t, "APPROVED", rows[1][9])
	assert.Equal(t, "148", rows[1][10])
}

func TestTimesheetWorkbook_MissingRateLeavesGrossEmpty(t *testing.T) {
	entryID := "e1"
	group := &timesheet.WeekGroup{
		EmployeeID:   "emp-unknown",
		EmployeeName: "Pat New",
		ShopID:       "shop-1",
		WeekStart:    "2025-07-14",
	}
	for i := 0; i < 7; i++ {
		group.Days[i] = &timesheet.DayCell{Date: "2025-07-14"}
	}
	group.Days[2].EntryID = &entryID
	group.Days[2].Hours = 6.5
	group.Days[2].Status = timesheet.StatusPending

	var buf bytes.Buffer
	require.NoError(t, TimesheetWorkbook(&buf, "2025-07-14", []*timesheet.WeekGroup{group}, nil))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows("Week of 2025-07-14")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "6.5", rows[1][3])
	assert.Equal(t, "6.5", rows[1][8])
	assert.Equal(t, "PENDING", rows[1][9])
	// No hourly rate for the employee: the gross cell stays blank.
	assert.LessOrEqual(t, len(rows[1]), 11)
	if len(rows[1]) == 11 {
		assert.Empty(t, rows[1][10])
	}
}
