package export

import (
	"github.com/xuri/excelize/v2"
)

const (
	outcomesSheet = "Outcomes"
	summarySheet  = "Summary"
)

// writeXLSX writes a workbook with an Outcomes sheet, one row per
// document, and a Summary sheet with the run totals.
func writeXLSX(doc document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", outcomesSheet); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	head := make([]any, len(columns))
	for i, c := range columns {
		head[i] = c
	}
	if err := f.SetSheetRow(outcomesSheet, "A1", &head); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(outcomesSheet, "A1", last, header); err != nil {
		return err
	}

	for i, o := range doc.Outcomes {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			o.Index, o.OriginalPath, o.FinalPath, o.Status, o.Reason,
			o.Source, o.Title, o.ConflictSuffix, o.BackupPath, o.DurationMS,
		}
		if err := f.SetSheetRow(outcomesSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(outcomesSheet, "B", "C", 48)
	_ = f.SetColWidth(outcomesSheet, "E", "E", 32)
	_ = f.SetColWidth(outcomesSheet, "G", "G", 40)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"run_id", doc.ID},
		{"mode", doc.Mode},
		{"started_at", doc.StartedAt},
		{"finished_at", doc.FinishedAt},
		{"total", doc.Summary.Total},
		{"succeeded", doc.Summary.Succeeded},
		{"skipped", doc.Summary.Skipped},
		{"failed", doc.Summary.Failed},
		{"duration_ms", doc.Summary.DurationMS},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A9", header); err != nil {
		return err
	}

	return f.SaveAs(path)
}
