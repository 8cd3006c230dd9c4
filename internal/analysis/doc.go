// Package analysis runs one FracFocus analysis pass end to end.
//
// A Pipeline loads the registry export, filters it by location and
// operator, extracts the job characteristics and vendor uses, summarises
// vendor usage per quarter and renders the four charts:
//
//	water_volume     scatter of TotalBaseWaterVolume over JobStartDate
//	nonwater_volume  scatter of TotalBaseNonWaterVolume over JobStartDate
//	nonwater_box     box plot of TotalBaseNonWaterVolume
//	vendor_usage     stacked bar of vendor uses per quarter
//
// Every stage runs inside its own span and records row counts. A chart with
// nothing to draw is skipped with a warning; any other failure aborts the run.
package analysis
