package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file path an analysis run writes to.
// This is the single source of truth for output locations.
type Paths struct {
	OutputDir  string
	ChartsDir  string
	ExportsDir string

	// Well-known export files
	JobsCSV     string
	UsageCSV    string
	WorkbookXLS string
}

// NewPaths lays out the output tree under dir:
//
//	<dir>/
//	  ├── charts/    (rendered charts)
//	  └── exports/   (jobs.csv, vendor_usage.csv, fracfocus_analysis.xlsx)
func NewPaths(dir string) (*Paths, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir %s: %w", dir, err)
	}

	exportsDir := filepath.Join(abs, "exports")
	return &Paths{
		OutputDir:   abs,
		ChartsDir:   filepath.Join(abs, "charts"),
		ExportsDir:  exportsDir,
		JobsCSV:     filepath.Join(exportsDir, "jobs.csv"),
		UsageCSV:    filepath.Join(exportsDir, "vendor_usage.csv"),
		WorkbookXLS: filepath.Join(exportsDir, "fracfocus_analysis.xlsx"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.ChartsDir, p.ExportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetChartPath returns the path of a chart file
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetExportPath returns the path of an export file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
