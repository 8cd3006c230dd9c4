package charts

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	apperrors "fracfocus/internal/errors"
	"fracfocus/pkg/contracts/domain"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Chart is a rendered chart.
type Chart struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Format string `json:"format"`
	Data   []byte `json:"-"`
}

// Filename returns the file name Save writes to.
func (c *Chart) Filename() string {
	return c.Name + "." + c.Format
}

// ContentType returns the MIME type of Data.
func (c *Chart) ContentType() string {
	if c.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Save writes the chart into dir and returns the file path.
func (c *Chart) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create chart directory", err)
	}
	path := filepath.Join(dir, c.Filename())
	if err := os.WriteFile(path, c.Data, 0644); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to write chart %s", c.Name), err)
	}
	return path, nil
}

// Options control the size and encoding of rendered charts.
type Options struct {
	Format string  // png or svg, png when empty
	Width  float64 // inches
	Height float64 // inches
}

// Renderer renders charts with fixed options.
type Renderer struct {
	format string
	width  vg.Length
	height vg.Length
}

// NewRenderer validates opts and returns a renderer.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Format != FormatPNG && opts.Format != FormatSVG {
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported chart format %q", opts.Format), nil)
	}
	if opts.Width <= 0 {
		opts.Width = 10
	}
	if opts.Height <= 0 {
		opts.Height = 6
	}
	return &Renderer{
		format: opts.Format,
		width:  vg.Length(opts.Width) * vg.Inch,
		height: vg.Length(opts.Height) * vg.Inch,
	}, nil
}

// Format returns the output format of the renderer.
func (r *Renderer) Format() string {
	return r.format
}

// TimePoint is one observation on a time axis.
type TimePoint struct {
	Time  time.Time
	Value float64
}

// Scatter plots value over time. Points with a zero time or a NaN value are
// skipped.
func (r *Renderer) Scatter(name, title, xLabel, yLabel string, points []TimePoint) (*Chart, error) {
	xys := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		if pt.Time.IsZero() || domain.IsMissing(pt.Value) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(pt.Time.Unix()), Y: pt.Value})
	}
	if len(xys) == 0 {
		return nil, apperrors.ErrNoData
	}

	p := r.newPlot(title)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to build scatter", err)
	}
	scatter.GlyphStyle.Color = plotutil.Color(0)
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(scatter)

	return r.render(name, title, p)
}

// BoxPlot draws a single box over the non-missing values. Outliers are not
// drawn and the value axis ends at the whiskers.
func (r *Renderer) BoxPlot(name, title, label string, values []float64) (*Chart, error) {
	p, err := r.boxPlot(title, label, values)
	if err != nil {
		return nil, err
	}
	return r.render(name, title, p)
}

func (r *Renderer) boxPlot(title, label string, values []float64) (*plot.Plot, error) {
	vals := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !domain.IsMissing(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, apperrors.ErrNoData
	}

	p := r.newPlot(title)
	p.Y.Label.Text = label

	box, err := plotter.NewBoxPlot(vg.Points(60), 0, vals)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to build box plot", err)
	}
	box.Outside = nil
	box.FillColor = plotutil.Color(0)
	p.Add(box)
	p.NominalX(label)

	// DataRange still spans the outliers.
	pad := (box.AdjHigh - box.AdjLow) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(box.AdjHigh)*0.05, 1)
	}
	p.Y.Min = box.AdjLow - pad
	p.Y.Max = box.AdjHigh + pad
	return p, nil
}

// StackedBar draws one bar per quarter of pivot with one stacked segment per
// supplier, in supplier order, and a legend naming the suppliers.
func (r *Renderer) StackedBar(name, title string, pivot *domain.UsagePivot) (*Chart, error) {
	if pivot.Empty() {
		return nil, apperrors.ErrNoData
	}

	p := r.newPlot(title)
	p.Y.Label.Text = "Count"
	p.X.Label.Text = "Quarter"
	p.Legend.Top = true
	p.Legend.Left = false

	var below *plotter.BarChart
	for j, supplier := range pivot.Suppliers {
		col := pivot.Column(supplier)
		vals := make(plotter.Values, len(col))
		for i, c := range col {
			vals[i] = float64(c)
		}

		bar, err := plotter.NewBarChart(vals, vg.Points(24))
		if err != nil {
			return nil, apperrors.NewRenderError(fmt.Sprintf("failed to build bar for %s", supplier), err)
		}
		bar.LineStyle.Width = vg.Length(0)
		bar.Color = plotutil.Color(j)
		if below != nil {
			bar.StackOn(below)
		}
		p.Add(bar)
		p.Legend.Add(supplier, bar)
		below = bar
	}

	labels := make([]string, len(pivot.Quarters))
	for i, q := range pivot.Quarters {
		labels[i] = q.String()
	}
	p.NominalX(labels...)

	return r.render(name, title, p)
}

func (r *Renderer) newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	return p
}

func (r *Renderer) render(name, title string, p *plot.Plot) (*Chart, error) {
	w, err := p.WriterTo(r.width, r.height, r.format)
	if err != nil {
		return nil, apperrors.NewRenderError(fmt.Sprintf("failed to render %s", name), err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, apperrors.NewRenderError(fmt.Sprintf("failed to encode %s", name), err)
	}
	return &Chart{
		Name:   name,
		Title:  title,
		Format: r.format,
		Data:   buf.Bytes(),
	}, nil
}
