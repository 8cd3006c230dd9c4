package registry

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"fracfocus/internal/config"
	apperrors "fracfocus/internal/errors"
)

// Columns maps the logical registry fields to header names.
type Columns struct {
	State                   string
	County                  string
	Operator                string
	APINumber               string
	JobStart                string
	JobEnd                  string
	TotalBaseWaterVolume    string
	TotalBaseNonWaterVolume string
	TVD                     string
	Latitude                string
	Longitude               string
	Supplier                string
	TradeName               string
}

// ColumnsFrom converts the configured header names.
func ColumnsFrom(c config.ColumnsConfig) Columns {
	return Columns(c)
}

// DefaultColumns returns the FracFocus export headers.
func DefaultColumns() Columns {
	return ColumnsFrom(config.DefaultColumns())
}

// Filters are the columns the row filter reads.
func (c Columns) Filters() []string {
	return []string{c.State, c.County, c.Operator}
}

// Characteristics is the projection of the physical job characteristics.
func (c Columns) Characteristics() []string {
	return []string{
		c.JobStart,
		c.JobEnd,
		c.APINumber,
		c.TotalBaseNonWaterVolume,
		c.TVD,
		c.TotalBaseWaterVolume,
		c.Latitude,
		c.Longitude,
	}
}

// Vendors is the projection used for supplier usage.
func (c Columns) Vendors() []string {
	return []string{
		c.JobStart,
		c.JobEnd,
		c.APINumber,
		c.Latitude,
		c.Longitude,
		c.Supplier,
		c.TradeName,
	}
}

// All returns every mapped header once, in declaration order.
func (c Columns) All() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append(c.Filters(), append(c.Characteristics(), c.Vendors()...)...) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// RequireColumns checks that df carries every named column. The returned
// error lists all missing headers and matches apperrors.ErrMissingColumn.
func RequireColumns(df dataframe.DataFrame, names ...string) error {
	present := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		present[n] = true
	}

	var missing []string
	for _, n := range names {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return apperrors.NewAppError(apperrors.ErrTypeInput, apperrors.ErrMissingColumn.Message,
		fmt.Errorf("%s", strings.Join(missing, ", "))).
		WithContext("columns", missing)
}
