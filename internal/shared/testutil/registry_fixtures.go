package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// RegistryHeader is the FracFocus export header used by fixtures.
var RegistryHeader = []string{
	"StateName", "CountyName", "OperatorName", "APINumber",
	"JobStartDate", "JobEndDate",
	"TotalBaseWaterVolume", "TotalBaseNonWaterVolume", "TVD",
	"Latitude", "Longitude", "Supplier", "TradeName",
}

// RegistryRow is one ingredient line of a disclosure.
type RegistryRow struct {
	State, County, Operator, APINumber string
	JobStart, JobEnd                   string
	Water, NonWater, TVD               string
	Latitude, Longitude                string
	Supplier, TradeName                string
}

func (r RegistryRow) record() []string {
	return []string{
		r.State, r.County, r.Operator, r.APINumber,
		r.JobStart, r.JobEnd,
		r.Water, r.NonWater, r.TVD,
		r.Latitude, r.Longitude, r.Supplier, r.TradeName,
	}
}

// Job returns a row in Andrews County, Texas operated by XTO. Each
// distinct n yields a distinct API number and volumes.
func Job(n int, start, supplier string) RegistryRow {
	return RegistryRow{
		State:     "Texas",
		County:    "Andrews",
		Operator:  "XTO Energy Inc.",
		APINumber: fmt.Sprintf("4200300%07d", n),
		JobStart:  start,
		JobEnd:    start,
		Water:     fmt.Sprintf("%d", 1000000+n*1000),
		NonWater:  fmt.Sprintf("%d", 100000+n*100),
		TVD:       "8500",
		Latitude:  "32.3",
		Longitude: "-102.6",
		Supplier:  supplier,
		TradeName: "FR-" + supplier,
	}
}

// DefaultRows is a small registry covering in-area, out-of-area and
// other-operator disclosures with one supplier used often enough to survive
// a threshold of 20.
func DefaultRows() []RegistryRow {
	var rows []RegistryRow
	for i := 0; i < 24; i++ {
		start := fmt.Sprintf("%d/15/2018 12:00:00 AM", i%12+1)
		rows = append(rows, Job(i, start, "Nalco Champion"))
	}
	rows = append(rows,
		Job(100, "5/1/2018 12:00:00 AM", "Halliburton"),
		Job(101, "6/1/2018 12:00:00 AM", "ProFrac"),
	)

	midland := Job(200, "5/1/2018 12:00:00 AM", "Nalco")
	midland.County = "Midland"
	other := Job(201, "5/1/2018 12:00:00 AM", "Nalco")
	other.Operator = "Pioneer Natural Resources"
	rows = append(rows, midland, other)
	return rows
}

// RegistryCSV renders rows as a comma separated registry export.
func RegistryCSV(rows []RegistryRow) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(RegistryHeader)
	for _, r := range rows {
		_ = w.Write(r.record())
	}
	w.Flush()
	return buf.String()
}

// WriteRegistry writes rows to a CSV file in a test temp dir and returns
// its path.
func WriteRegistry(t *testing.T, rows []RegistryRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fracfocus_data_example.csv")
	if err := os.WriteFile(path, []byte(RegistryCSV(rows)), 0644); err != nil {
		t.Fatalf("write registry fixture: %v", err)
	}
	return path
}
