package http

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fracfocus/internal/analysis"
	"fracfocus/internal/charts"
	apierrors "fracfocus/internal/errors"
	"fracfocus/pkg/contracts/domain"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{
		"comma":  func(n int) string { return humanize.Comma(int64(n)) },
		"commaf": humanize.Commaf,
	}).
	ParseFS(templates, "templates/index.html"))

// ChartInfo describes a rendered chart and where to fetch it.
type ChartInfo struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

// SummaryResponse is the JSON view of an analysis run.
type SummaryResponse struct {
	RunID        string                 `json:"run_id"`
	Source       string                 `json:"source"`
	Started      string                 `json:"started"`
	TotalRows    int                    `json:"total_rows"`
	FilteredRows int                    `json:"filtered_rows"`
	Jobs         int                    `json:"jobs"`
	UndatedJobs  int                    `json:"undated_jobs"`
	VendorUses   int                    `json:"vendor_uses"`
	Summaries    []domain.VolumeSummary `json:"summaries"`
	Pivot        *domain.UsagePivot     `json:"pivot"`
	Charts       []ChartInfo            `json:"charts"`
	Skipped      []string               `json:"skipped_charts,omitempty"`
}

// ViewerHandler serves one analysis result
type ViewerHandler struct {
	result *analysis.Result
	logger *slog.Logger
}

// NewViewerHandler creates a new viewer handler
func NewViewerHandler(result *analysis.Result, logger *slog.Logger) *ViewerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewerHandler{
		result: result,
		logger: logger.With(slog.String("handler", "viewer")),
	}
}

// Routes mounts the viewer routes
func (h *ViewerHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/charts/{name}", h.Chart)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/api/summary", h.Summary)
}

// Index handles GET /
func (h *ViewerHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, h.summary()); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render index page",
			slog.String("error", err.Error()))
	}
}

// Chart handles GET /charts/{name}. The name may carry the file extension.
func (h *ViewerHandler) Chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	chart, err := h.lookup(name)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", chart.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(chart.Data); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write chart",
			slog.String("chart", name),
			slog.String("error", err.Error()))
	}
}

// lookup finds a rendered chart by name or file name. A chart the run
// skipped for lack of data is reported as such rather than as unknown.
func (h *ViewerHandler) lookup(name string) (*charts.Chart, error) {
	if chart, ok := h.result.Chart(name); ok {
		return chart, nil
	}
	for _, c := range h.result.Charts {
		if c.Filename() == name {
			return c, nil
		}
	}
	for _, skipped := range h.result.Skipped {
		if skipped == name {
			return nil, fmt.Errorf("chart %s: %w", name, apierrors.NewAppError(apierrors.ErrTypeValidation, "no data", nil).WithContext("chart", name))
		}
	}
	return nil, apierrors.NewNotFoundError("chart " + name)
}

// Summary handles GET /api/summary
func (h *ViewerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary())
}

func (h *ViewerHandler) summary() SummaryResponse {
	res := h.result
	infos := make([]ChartInfo, 0, len(res.Charts))
	for _, c := range res.Charts {
		infos = append(infos, ChartInfo{
			Name:   c.Name,
			Title:  c.Title,
			Format: c.Format,
			URL:    "/charts/" + c.Name,
		})
	}
	summaries := res.Summaries
	if summaries == nil {
		summaries = []domain.VolumeSummary{}
	}
	return SummaryResponse{
		RunID:        res.RunID,
		Source:       res.Source,
		Started:      res.Started.Format(time.RFC3339),
		TotalRows:    res.TotalRows,
		FilteredRows: res.FilteredRows,
		Jobs:         len(res.Jobs),
		UndatedJobs:  res.UndatedJobs,
		VendorUses:   res.VendorUses,
		Summaries:    summaries,
		Pivot:        res.Pivot,
		Charts:       infos,
		Skipped:      res.Skipped,
	}
}
