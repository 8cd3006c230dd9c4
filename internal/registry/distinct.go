package registry

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// keySep joins the cells of a row into its dedup key. It cannot appear in a
// parsed CSV field.
const keySep = "\x1f"

// KeyFunc maps a cell to the value it is compared by when dropping
// duplicates, e.g. a parsed timestamp in canonical form.
type KeyFunc func(cell string) string

// Distinct projects df onto columns and drops duplicate rows, keeping the
// first occurrence of each. Cells are compared as raw strings unless keys
// holds a KeyFunc for their column.
func Distinct(df dataframe.DataFrame, columns []string, keys map[string]KeyFunc) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, columns...); err != nil {
		return df, err
	}

	projected := df.Select(columns)
	if projected.Err != nil {
		return projected, fmt.Errorf("project columns: %w", projected.Err)
	}
	if projected.Nrow() == 0 {
		return projected, nil
	}

	records := projected.Records()
	header, records := records[0], records[1:]
	seen := make(map[string]struct{}, len(records))
	keep := make([]int, 0, len(records))
	cells := make([]string, len(header))
	for i, rec := range records {
		for j, cell := range rec {
			if fn, ok := keys[header[j]]; ok {
				cell = fn(cell)
			}
			cells[j] = cell
		}
		key := strings.Join(cells, keySep)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == len(records) {
		return projected, nil
	}

	out := projected.Subset(keep)
	if out.Err != nil {
		return out, fmt.Errorf("drop duplicates: %w", out.Err)
	}
	return out, nil
}

// DropMissing removes the rows whose column value is empty or NaN.
func DropMissing(df dataframe.DataFrame, column string) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, column); err != nil {
		return df, err
	}

	out := df.Filter(dataframe.F{
		Colname:    column,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !IsMissing(el)
		},
	})
	if out.Err != nil {
		return out, fmt.Errorf("drop missing %s: %w", column, out.Err)
	}
	return out, nil
}

// IsMissing reports whether a cell holds no value.
func IsMissing(el series.Element) bool {
	if el.IsNA() {
		return true
	}
	v := strings.TrimSpace(el.String())
	return v == "" || v == "NaN"
}
