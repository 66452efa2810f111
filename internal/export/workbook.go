package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kaitokidbua/worktime-codex/internal/summary"
	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

// sheetName is the workbook tab for each granularity.
func sheetName(g summary.Granularity) string {
	name := g.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// NewWorkbook builds a workbook with Daily, Weekly and Monthly summary
// sheets. The caller closes it.
func NewWorkbook(records []work.AttendanceRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, g := range summary.Granularities() {
		sheet := sheetName(g)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}

		rows := summary.Sorted(summary.Summarize(records, g))
		if err := writeSummarySheet(f, sheet, rows); err != nil {
			f.Close()
			return nil, fmt.Errorf("%s sheet: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	return f, nil
}

func writeSummarySheet(f *excelize.File, sheet string, rows []summary.PeriodSummary) error {
	for col, h := range SummaryColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, s := range rows {
		values := []interface{}{
			s.PeriodKey,
			s.PeriodStart.Format(isoDate),
			s.PeriodEnd.Format(isoDate),
			s.EmployeeID,
			s.Name,
			Round2(s.TotalRegularHours),
			Round2(s.TotalOvertimeHours),
			Round2(s.TotalWorkedHours),
			s.RecordCount,
			s.DaysPresent,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteWorkbook streams the summary workbook to w.
func WriteWorkbook(w io.Writer, records []work.AttendanceRecord) error {
	f, err := NewWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveWorkbook writes the summary workbook to path.
func SaveWorkbook(path string, records []work.AttendanceRecord) error {
	f, err := NewWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}
