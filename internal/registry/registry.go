package registry

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "fracfocus/internal/errors"
)

// Options control how the registry file is read.
type Options struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune

	// Columns overrides the header mapping. Zero value means DefaultColumns.
	Columns Columns
}

// Registry is a loaded disclosure table.
type Registry struct {
	Frame   dataframe.DataFrame
	Columns Columns

	// Source is the input as given to Load; Files are the parts it resolved to.
	Source string
	Files  []string
}

// Load reads the registry export named by input, which may be a file, a
// directory of parts or a glob (see Discover). Parts are concatenated in
// order and must share the same header.
func Load(input string, opts Options) (*Registry, error) {
	sources, err := Discover(input)
	if err != nil {
		return nil, err
	}

	var reg *Registry
	for _, src := range sources {
		part, err := loadFile(src.Path, opts)
		if err != nil {
			return nil, err
		}
		if reg == nil {
			reg = part
		} else {
			reg.Frame = reg.Frame.RBind(part.Frame)
			if reg.Frame.Err != nil {
				return nil, apperrors.NewParsingError(fmt.Sprintf("registry part %s does not match the first part", src.Name), reg.Frame.Err)
			}
		}
		reg.Files = append(reg.Files, src.Path)
	}
	reg.Source = input
	return reg, nil
}

func loadFile(path string, opts Options) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("cannot open registry %s", path), err)
	}
	defer f.Close()
	return LoadReader(f, opts)
}

// LoadReader reads a delimited registry table from r. Every column is kept
// as a string; type detection is disabled because API numbers and dates must
// survive verbatim.
func LoadReader(r io.Reader, opts Options) (*Registry, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(opts.Delimiter),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, apperrors.NewParsingError("cannot parse registry table", df.Err)
	}

	return &Registry{
		Frame:   df,
		Columns: opts.Columns,
	}, nil
}

// Rows returns the number of rows in the table.
func (r *Registry) Rows() int {
	return r.Frame.Nrow()
}
