package spreadsheet

import (
	"context"
	"math"

	"github.com/xuri/excelize/v2"

	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

const (
	timesheetSheet = "Timesheet"
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var timesheetHeader = []any{"Person", "Role", "Category", "Start", "End", "Hours", "Wage", "Amount"}

// ExcelizeRenderer writes time entries into a single-sheet workbook with a
// totals row.
type ExcelizeRenderer struct{}

var _ ports.TimesheetRenderer = (*ExcelizeRenderer)(nil)

func NewExcelizeRenderer() *ExcelizeRenderer {
	return &ExcelizeRenderer{}
}

func (r *ExcelizeRenderer) ContentType() string { return xlsxMediaType }

func (r *ExcelizeRenderer) Extension() string { return ".xlsx" }

func (r *ExcelizeRenderer) RenderTimesheet(ctx context.Context, input ports.TimesheetInput) ([]byte, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), timesheetSheet); err != nil {
		return nil, errs.Wrap(err, "rename sheet")
	}

	if err := f.SetSheetRow(timesheetSheet, "A1", &[]any{input.EventName, input.EventDate}); err != nil {
		return nil, errs.Wrap(err, "write title row")
	}
	if err := f.SetSheetRow(timesheetSheet, "A3", &timesheetHeader); err != nil {
		return nil, errs.Wrap(err, "write header row")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errs.Wrap(err, "create header style")
	}
	if err := f.SetCellStyle(timesheetSheet, "A1", "H3", bold); err != nil {
		return nil, errs.Wrap(err, "style header")
	}

	var totalHours, totalAmount float64
	row := 4
	for _, entry := range input.Entries {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, errs.Wrap(err, "locate entry row")
		}
		values := []any{
			entry.PersonName,
			entry.Role,
			entry.Category,
			entry.StartTime,
			entry.EndTime,
			entry.Hours,
			entry.Wage,
			entry.Amount,
		}
		if err := f.SetSheetRow(timesheetSheet, cell, &values); err != nil {
			return nil, errs.Wrapf(err, "write entry row %d", row)
		}
		totalHours += entry.Hours
		totalAmount += entry.Amount
		row++
	}

	totalCell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return nil, errs.Wrap(err, "locate totals row")
	}
	totals := []any{"Total", "", "", "", "", roundCents(totalHours), "", roundCents(totalAmount)}
	if err := f.SetSheetRow(timesheetSheet, totalCell, &totals); err != nil {
		return nil, errs.Wrap(err, "write totals row")
	}
	totalEnd, err := excelize.CoordinatesToCellName(len(timesheetHeader), row+1)
	if err != nil {
		return nil, errs.Wrap(err, "locate totals row")
	}
	if err := f.SetCellStyle(timesheetSheet, totalCell, totalEnd, bold); err != nil {
		return nil, errs.Wrap(err, "style totals row")
	}

	if err := f.SetColWidth(timesheetSheet, "A", "C", 22); err != nil {
		return nil, errs.Wrap(err, "set column width")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errs.Wrap(err, "encode workbook")
	}
	return buf.Bytes(), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
