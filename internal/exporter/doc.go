// Package exporter writes the analysis tables to disk.
//
// CSVWriter is the low-level CSV writer with optional UTF-8 BOM for Excel.
// Exporter writes the deduplicated jobs table and the vendor usage pivot as
// CSV files, and all tables together as an Excel workbook with the sheets
// Jobs, VendorUsage and Summary.
//
// Example usage:
//
//	exp := exporter.New(paths, logger, true)
//	files, err := exp.Export(ctx, exporter.Tables{Jobs: jobs, Pivot: pivot})
package exporter
