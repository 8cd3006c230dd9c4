package dataprocessing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"fracfocus/internal/config"
	apperrors "fracfocus/internal/errors"
	"fracfocus/internal/registry"
	"fracfocus/pkg/contracts/domain"
)

type vendorRule struct {
	re   *regexp.Regexp
	name string
}

// VendorCleaner maps free-text supplier names onto canonical vendors.
type VendorCleaner struct {
	rules []vendorRule
}

// NewVendorCleaner compiles rules in order. An invalid pattern is a CONFIG
// error naming the rule.
func NewVendorCleaner(rules []config.VendorRule) (*VendorCleaner, error) {
	c := &VendorCleaner{rules: make([]vendorRule, 0, len(rules))}
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("invalid vendor pattern %q", r.Pattern), err).
				WithContext("rule", i)
		}
		c.rules = append(c.rules, vendorRule{re: re, name: r.Name})
	}
	return c, nil
}

// Clean upper-cases s and applies every rule in order.
func (c *VendorCleaner) Clean(s string) string {
	v := strings.ToUpper(s)
	for _, r := range c.rules {
		if r.re.MatchString(v) {
			v = r.name
		}
	}
	return v
}

// Len returns the number of rules.
func (c *VendorCleaner) Len() int {
	return len(c.rules)
}

// ExtractVendorUses projects df onto the vendor columns, drops duplicate
// rows and rows without a supplier, then cleans supplier names and derives
// the quarter of each job start.
func ExtractVendorUses(df dataframe.DataFrame, cols registry.Columns, cleaner *VendorCleaner) ([]domain.VendorUse, error) {
	distinct, err := registry.Distinct(df, cols.Vendors(), startKeys(cols))
	if err != nil {
		return nil, fmt.Errorf("extract vendor uses: %w", err)
	}
	withSupplier, err := registry.DropMissing(distinct, cols.Supplier)
	if err != nil {
		return nil, fmt.Errorf("extract vendor uses: %w", err)
	}

	recs := rows(withSupplier)
	uses := make([]domain.VendorUse, 0, len(recs))
	for _, row := range recs {
		start, _ := ParseDate(row[cols.JobStart])
		end, _ := ParseDate(row[cols.JobEnd])
		raw := row[cols.Supplier]
		uses = append(uses, domain.VendorUse{
			APINumber:   row[cols.APINumber],
			JobStart:    start,
			JobEnd:      end,
			Latitude:    ParseFloat(row[cols.Latitude]),
			Longitude:   ParseFloat(row[cols.Longitude]),
			RawSupplier: raw,
			Supplier:    cleaner.Clean(raw),
			TradeName:   row[cols.TradeName],
			Quarter:     domain.QuarterOf(start),
		})
	}
	return uses, nil
}
