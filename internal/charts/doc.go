// Package charts renders the analysis charts with gonum/plot.
//
// Charts are rendered in memory as PNG or SVG so the same bytes can be
// written to the output directory and served by the viewer. Every
// constructor returns apperrors.ErrNoData when nothing would be drawn; the
// caller decides whether that is fatal.
package charts
