package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "fracfocus/internal/errors"
	"fracfocus/pkg/contracts/domain"
)

// Sheet names of the analysis workbook.
const (
	SheetJobs    = "Jobs"
	SheetUsage   = "VendorUsage"
	SheetSummary = "Summary"
)

// WriteWorkbook writes the tables to an Excel workbook at path.
func WriteWorkbook(path string, t Tables) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetJobs); err != nil {
		return apperrors.NewStorageError("failed to name jobs sheet", err)
	}
	for _, name := range []string{SheetUsage, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", name), err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	jobs := make([][]interface{}, len(t.Jobs))
	for i, j := range t.Jobs {
		jobs[i] = []interface{}{
			FormatDate(j.JobStart),
			FormatDate(j.JobEnd),
			j.APINumber,
			cell(j.TotalBaseNonWaterVolume),
			cell(j.TVD),
			cell(j.TotalBaseWaterVolume),
			cell(j.Latitude),
			cell(j.Longitude),
		}
	}
	if err := writeSheet(f, SheetJobs, header, JobHeaders, jobs); err != nil {
		return err
	}

	if t.Pivot != nil {
		usage := make([][]interface{}, len(t.Pivot.Quarters))
		for i, q := range t.Pivot.Quarters {
			row := []interface{}{q.String()}
			for _, c := range t.Pivot.Counts[i] {
				row = append(row, c)
			}
			usage[i] = row
		}
		if err := writeSheet(f, SheetUsage, header, PivotHeaders(t.Pivot), usage); err != nil {
			return err
		}
	}

	summary := make([][]interface{}, len(t.Summaries))
	for i, s := range t.Summaries {
		summary[i] = []interface{}{s.Column, s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean}
	}
	if err := writeSheet(f, SheetSummary, header, SummaryHeaders, summary); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create export directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, style int, headers []string, rows [][]interface{}) error {
	head := make([]interface{}, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s header", sheet), err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to style %s header", sheet), err)
	}

	for i := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell coordinates", err)
		}
		if err := f.SetSheetRow(sheet, addr, &rows[i]); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write %s row %d", sheet, i+1), err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cell leaves missing values blank.
func cell(v float64) interface{} {
	if domain.IsMissing(v) {
		return nil
	}
	return v
}
