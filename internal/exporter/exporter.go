package exporter

import (
	"context"
	"log/slog"

	"fracfocus/internal/config"
	"fracfocus/pkg/contracts/domain"
)

// Tables are the results of one analysis run.
type Tables struct {
	Jobs      []domain.FracJob
	Pivot     *domain.UsagePivot
	Summaries []domain.VolumeSummary
}

// Exporter writes Tables to the export files laid out by config.Paths.
type Exporter struct {
	paths     *config.Paths
	csv       *CSVWriter
	logger    *slog.Logger
	bomPrefix bool
}

// New creates an exporter writing below paths.ExportsDir.
func New(paths *config.Paths, logger *slog.Logger, bomPrefix bool) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		paths:     paths,
		csv:       NewCSVWriter(paths, logger),
		logger:    logger,
		bomPrefix: bomPrefix,
	}
}

// Export writes the jobs CSV, the usage pivot CSV and the workbook, and
// returns the paths written.
func (e *Exporter) Export(ctx context.Context, t Tables) ([]string, error) {
	var files []string

	path, err := e.csv.WriteCSV(ctx, e.paths.JobsCSV, WriteOptions{
		Headers:   JobHeaders,
		Records:   JobRecords(t.Jobs),
		BOMPrefix: e.bomPrefix,
	})
	if err != nil {
		return files, err
	}
	files = append(files, path)

	if t.Pivot != nil {
		path, err = e.csv.WriteCSV(ctx, e.paths.UsageCSV, WriteOptions{
			Headers:   PivotHeaders(t.Pivot),
			Records:   PivotRecords(t.Pivot),
			BOMPrefix: e.bomPrefix,
		})
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if err := WriteWorkbook(e.paths.WorkbookXLS, t); err != nil {
		return files, err
	}
	files = append(files, e.paths.WorkbookXLS)

	e.logger.InfoContext(ctx, "Tables exported",
		slog.Int("files", len(files)),
		slog.String("dir", e.paths.ExportsDir))
	return files, nil
}
