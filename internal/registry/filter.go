package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "fracfocus/internal/errors"
)

// Search selects disclosures by location and operator. Zero-valued criteria
// match every row.
type Search struct {
	// State and StateAbbreviation are both accepted for the state column,
	// compared case-insensitively.
	State             string
	StateAbbreviation string

	// Counties is the set of county names to keep, case-insensitive.
	Counties []string

	// Operator is a regular expression searched case-insensitively in the
	// operator name, so "XTO" keeps "XTO Energy Inc." and "XTO|PIONEER"
	// keeps both operators.
	Operator string
}

// Filter returns the rows of df matching every criterion of s.
func (s Search) Filter(df dataframe.DataFrame, cols Columns) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, cols.Filters()...); err != nil {
		return df, err
	}

	if s.State != "" || s.StateAbbreviation != "" {
		df = df.Filter(dataframe.F{
			Colname:    cols.State,
			Comparator: series.CompFunc,
			Comparando: s.matchState,
		})
	}
	if counties := s.countySet(); len(counties) > 0 {
		df = df.Filter(dataframe.F{
			Colname:    cols.County,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !el.IsNA() && counties[normalize(el.String())]
			},
		})
	}
	if s.Operator != "" {
		operator, err := regexp.Compile("(?i)" + strings.TrimSpace(s.Operator))
		if err != nil {
			return df, apperrors.NewConfigError(fmt.Sprintf("invalid operator pattern %q", s.Operator), err)
		}
		df = df.Filter(dataframe.F{
			Colname:    cols.Operator,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !el.IsNA() && operator.MatchString(strings.TrimSpace(el.String()))
			},
		})
	}

	if df.Err != nil {
		return df, fmt.Errorf("filter registry: %w", df.Err)
	}
	return df, nil
}

func (s Search) matchState(el series.Element) bool {
	if el.IsNA() {
		return false
	}
	v := normalize(el.String())
	return (s.State != "" && v == normalize(s.State)) ||
		(s.StateAbbreviation != "" && v == normalize(s.StateAbbreviation))
}

func (s Search) countySet() map[string]bool {
	set := make(map[string]bool, len(s.Counties))
	for _, c := range s.Counties {
		if c = normalize(c); c != "" {
			set[c] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
