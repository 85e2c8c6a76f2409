// Package export persists batch run summaries, either as an Excel
// workbook or as plain tab-separated text.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lcfit/ports"
)

var columns = []string{"Name", "Period", "Degree", "R2", "MSE", "Shift", "MeanMagErr", "Outliers", "Skipped"}

// WorkbookWriter writes a batch summary as an .xlsx workbook with one
// row per star.
type WorkbookWriter struct{}

// NewWorkbookWriter returns a workbook writer.
func NewWorkbookWriter() *WorkbookWriter { return &WorkbookWriter{} }

// Write creates the workbook at path. The run ID lands in the sheet
// header so exported files remain traceable to their run.
func (w *WorkbookWriter) Write(path, runID string, records []ports.BatchRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("run %s", runID)); err != nil {
		return err
	}
	for c, name := range columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for i, rec := range records {
		row := i + 3
		values := recordValues(rec)
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func recordValues(rec ports.BatchRecord) []interface{} {
	if rec.Result == nil {
		return []interface{}{rec.Name, nil, nil, nil, nil, nil, nil, nil, rec.Skipped}
	}
	r := rec.Result
	return []interface{}{
		rec.Name, r.Period, r.Degree, r.R2, r.MSE, r.Shift, r.MeanMagErr, r.Mask.OutlierCount(), "",
	}
}
