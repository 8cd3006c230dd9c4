package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fracfocus/internal/charts"
	"fracfocus/internal/config"
	"fracfocus/internal/dataprocessing"
	apperrors "fracfocus/internal/errors"
	"fracfocus/internal/exporter"
	"fracfocus/internal/infrastructure"
	"fracfocus/internal/registry"
	"fracfocus/pkg/contracts/domain"
)

// Chart names.
const (
	ChartWater       = "water_volume"
	ChartNonWater    = "nonwater_volume"
	ChartNonWaterBox = "nonwater_box"
	ChartVendorUsage = "vendor_usage"
)

// Chart titles.
const (
	TitleWater       = "Total Base Water Volume for Fracs over Time"
	TitleNonWater    = "Total Base Non-Water Volume for Fracs over Time"
	TitleNonWaterBox = "Total Base Non-Water Volume for Fracs"
	TitleVendorUsage = "Number of Times Vendor Was Purchased From Over Quarter"
)

// Pipeline runs the analysis described by a Config.
type Pipeline struct {
	cfg       *config.Config
	cols      registry.Columns
	paths     *config.Paths
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	cleaner   *dataprocessing.VendorCleaner
	renderer  *charts.Renderer
}

// NewPipeline validates the parts of cfg that can fail before any data is
// read: vendor patterns, chart format and the output layout. telemetry may
// be nil.
func NewPipeline(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cleaner, err := dataprocessing.NewVendorCleaner(cfg.Vendors)
	if err != nil {
		return nil, err
	}
	renderer, err := charts.NewRenderer(charts.Options{
		Format: cfg.Output.ChartFormat,
		Width:  cfg.Output.ChartWidth,
		Height: cfg.Output.ChartHeight,
	})
	if err != nil {
		return nil, err
	}
	paths, err := config.NewPaths(cfg.Output.Dir)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid output directory", err)
	}

	return &Pipeline{
		cfg:       cfg,
		cols:      registry.ColumnsFrom(cfg.Columns),
		paths:     paths,
		logger:    logger,
		telemetry: telemetry,
		cleaner:   cleaner,
		renderer:  renderer,
	}, nil
}

// Paths returns the output layout of the pipeline.
func (p *Pipeline) Paths() *config.Paths {
	return p.paths
}

// Run executes one analysis pass.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx, runID := infrastructure.EnsureRunID(ctx)
	logger := p.logger.With(slog.String("run_id", runID))
	res := &Result{RunID: runID, Started: time.Now()}

	logger.InfoContext(ctx, "Analysis started",
		slog.String("input", p.cfg.Analysis.InputFile),
		slog.String("operator", p.cfg.Analysis.Operator),
		slog.Any("counties", p.cfg.Analysis.Counties))

	from, to, err := p.cfg.Analysis.Window()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid analysis window", err)
	}

	// load
	var reg *registry.Registry
	err = p.stage(ctx, "load", func(ctx context.Context) (int, error) {
		reg, err = registry.Load(p.cfg.Analysis.InputFile, registry.Options{
			Delimiter: p.cfg.Analysis.DelimiterRune(),
			Columns:   p.cols,
		})
		if err != nil {
			return 0, err
		}
		if err := registry.RequireColumns(reg.Frame, p.cols.All()...); err != nil {
			return 0, err
		}
		logger.DebugContext(ctx, "Registry loaded",
			slog.Int("files", len(reg.Files)),
			slog.Int("rows", reg.Rows()))
		return reg.Rows(), nil
	})
	if err != nil {
		return nil, err
	}
	res.Source = reg.Source
	res.TotalRows = reg.Rows()

	// filter
	search := registry.Search{
		State:             p.cfg.Analysis.State,
		StateAbbreviation: p.cfg.Analysis.StateAbbreviation,
		Counties:          p.cfg.Analysis.Counties,
		Operator:          p.cfg.Analysis.Operator,
	}
	filtered := reg.Frame
	err = p.stage(ctx, "filter", func(ctx context.Context) (int, error) {
		filtered, err = search.Filter(reg.Frame, p.cols)
		return filtered.Nrow(), err
	})
	if err != nil {
		return nil, err
	}
	res.FilteredRows = filtered.Nrow()
	logger.InfoContext(ctx, "Registry filtered",
		slog.Int("rows", res.TotalRows),
		slog.Int("kept", res.FilteredRows))

	// physical characteristics
	err = p.stage(ctx, "jobs", func(ctx context.Context) (int, error) {
		res.Jobs, err = dataprocessing.ExtractJobs(filtered, p.cols)
		return len(res.Jobs), err
	})
	if err != nil {
		return nil, err
	}
	res.UndatedJobs = dataprocessing.CountUndated(res.Jobs)
	if res.UndatedJobs > 0 {
		logger.WarnContext(ctx, "Jobs without a usable start date are excluded from time charts",
			slog.Int("count", res.UndatedJobs))
	}

	err = p.stage(ctx, "describe", func(ctx context.Context) (int, error) {
		res.Summaries = p.describe(ctx, logger, res.Jobs)
		return len(res.Summaries), nil
	})
	if err != nil {
		return nil, err
	}

	// vendor usage
	var uses []domain.VendorUse
	err = p.stage(ctx, "vendors", func(ctx context.Context) (int, error) {
		uses, err = dataprocessing.ExtractVendorUses(filtered, p.cols, p.cleaner)
		return len(uses), err
	})
	if err != nil {
		return nil, err
	}
	res.VendorUses = len(uses)

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
		WindowStart: from,
		WindowEnd:   to,
		MinUses:     p.cfg.Analysis.MinSupplierUses,
	})
	err = p.stage(ctx, "usage", func(ctx context.Context) (int, error) {
		res.Usage = summarizer.Summarize(ctx, uses)
		res.Pivot = res.Usage.Pivot
		return res.Usage.InWindow, nil
	})
	if err != nil {
		return nil, err
	}
	if p.telemetry != nil {
		p.telemetry.Metrics.SuppliersKept.Record(ctx, int64(len(res.Pivot.Suppliers)))
	}

	// charts
	err = p.stage(ctx, "render", func(ctx context.Context) (int, error) {
		res.Charts, res.Skipped, err = p.renderCharts(ctx, logger, res)
		return len(res.Charts), err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, "save", func(ctx context.Context) (int, error) {
		return p.save(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(res.Started)
	logger.InfoContext(ctx, "Analysis completed",
		slog.Int("jobs", len(res.Jobs)),
		slog.Int("suppliers", len(res.Pivot.Suppliers)),
		slog.Int("charts", len(res.Charts)),
		slog.Duration("duration", res.Duration))

	return res, nil
}

// stage runs fn inside a telemetry span and records the rows it reports.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var rows int
	var err error
	if p.telemetry == nil {
		rows, err = fn(ctx)
	} else {
		var end func(error)
		ctx, end = p.telemetry.StartStage(ctx, name)
		rows, err = fn(ctx)
		if err == nil {
			p.telemetry.RecordRows(ctx, name, rows)
		}
		end(err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (p *Pipeline) describe(ctx context.Context, logger *slog.Logger, jobs []domain.FracJob) []domain.VolumeSummary {
	var out []domain.VolumeSummary
	for _, name := range []string{p.cols.TotalBaseWaterVolume, p.cols.TotalBaseNonWaterVolume, p.cols.TVD} {
		values, err := dataprocessing.Column(jobs, p.cols, name)
		if err != nil {
			continue
		}
		summary, err := dataprocessing.Describe(name, values)
		if err != nil {
			logger.WarnContext(ctx, "No values to summarise", slog.String("column", name))
			continue
		}
		logger.InfoContext(ctx, "Volume summary",
			slog.String("column", name),
			slog.Int("count", summary.Count),
			slog.Float64("min", summary.Min),
			slog.Float64("q1", summary.Q1),
			slog.Float64("median", summary.Median),
			slog.Float64("q3", summary.Q3),
			slog.Float64("max", summary.Max))
		out = append(out, summary)
	}
	return out
}

// renderCharts renders the four charts concurrently. Charts without data
// are reported in skipped rather than failing the run.
func (p *Pipeline) renderCharts(ctx context.Context, logger *slog.Logger, res *Result) ([]*charts.Chart, []string, error) {
	water := make([]charts.TimePoint, len(res.Jobs))
	nonWater := make([]charts.TimePoint, len(res.Jobs))
	nonWaterValues := make([]float64, len(res.Jobs))
	for i, j := range res.Jobs {
		water[i] = charts.TimePoint{Time: j.JobStart, Value: j.TotalBaseWaterVolume}
		nonWater[i] = charts.TimePoint{Time: j.JobStart, Value: j.TotalBaseNonWaterVolume}
		nonWaterValues[i] = j.TotalBaseNonWaterVolume
	}

	jobStart := p.cols.JobStart
	tasks := []struct {
		name   string
		render func() (*charts.Chart, error)
	}{
		{ChartWater, func() (*charts.Chart, error) {
			return p.renderer.Scatter(ChartWater, TitleWater, jobStart, p.cols.TotalBaseWaterVolume, water)
		}},
		{ChartNonWater, func() (*charts.Chart, error) {
			return p.renderer.Scatter(ChartNonWater, TitleNonWater, jobStart, p.cols.TotalBaseNonWaterVolume, nonWater)
		}},
		{ChartNonWaterBox, func() (*charts.Chart, error) {
			return p.renderer.BoxPlot(ChartNonWaterBox, TitleNonWaterBox, p.cols.TotalBaseNonWaterVolume, nonWaterValues)
		}},
		{ChartVendorUsage, func() (*charts.Chart, error) {
			return p.renderer.StackedBar(ChartVendorUsage, TitleVendorUsage, res.Pivot)
		}},
	}

	rendered := make([]*charts.Chart, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chart, err := task.render()
			if errors.Is(err, apperrors.ErrNoData) {
				logger.WarnContext(gctx, "Chart skipped, nothing to draw", slog.String("chart", task.name))
				return nil
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", task.name, err)
			}
			rendered[i] = chart
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []*charts.Chart
	var skipped []string
	for i, c := range rendered {
		if c == nil {
			skipped = append(skipped, tasks[i].name)
			continue
		}
		out = append(out, c)
	}
	if p.telemetry != nil {
		p.telemetry.Metrics.ChartsRendered.Add(ctx, int64(len(out)))
	}
	return out, skipped, nil
}

// save writes the charts and, when enabled, the table exports.
func (p *Pipeline) save(ctx context.Context, res *Result) (int, error) {
	if err := p.paths.EnsureDirectories(); err != nil {
		return 0, apperrors.NewStorageError("failed to prepare output directory", err)
	}

	for _, c := range res.Charts {
		path, err := c.Save(p.paths.ChartsDir)
		if err != nil {
			return 0, err
		}
		res.ChartFiles = append(res.ChartFiles, path)
	}

	if p.cfg.Output.ExportTables {
		exp := exporter.New(p.paths, p.logger, p.cfg.Output.BOMPrefix)
		files, err := exp.Export(ctx, exporter.Tables{
			Jobs:      res.Jobs,
			Pivot:     res.Pivot,
			Summaries: res.Summaries,
		})
		if err != nil {
			return 0, err
		}
		res.ExportFiles = files
	}

	return len(res.ChartFiles) + len(res.ExportFiles), nil
}
