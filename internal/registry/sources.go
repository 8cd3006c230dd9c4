package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "fracfocus/internal/errors"
)

// SourceFile is one registry part found by Discover.
type SourceFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discover resolves input to the registry files it names. input may be a
// single file, a directory (every .csv directly inside it) or a glob pattern
// such as "data/FracFocusRegistry_*.csv". The bulk download splits the
// registry into numbered parts, so files are ordered by name with the
// trailing part number compared numerically.
func Discover(input string) ([]SourceFile, error) {
	var matches []string

	switch {
	case strings.ContainsAny(input, "*?["):
		var err error
		matches, err = filepath.Glob(input)
		if err != nil {
			return nil, apperrors.NewInputError(fmt.Sprintf("invalid registry pattern %s", input), err)
		}
	default:
		info, err := os.Stat(input)
		if err != nil {
			return nil, apperrors.NewInputError(fmt.Sprintf("cannot open registry %s", input), err)
		}
		if !info.IsDir() {
			return []SourceFile{{Path: input, Name: info.Name(), Size: info.Size(), ModTime: info.ModTime()}}, nil
		}
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, apperrors.NewInputError(fmt.Sprintf("cannot read registry directory %s", input), err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				matches = append(matches, filepath.Join(input, entry.Name()))
			}
		}
	}

	files := make([]SourceFile, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, SourceFile{
			Path:    match,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	if len(files) == 0 {
		return nil, apperrors.NewInputError(fmt.Sprintf("no registry files match %s", input), nil)
	}

	sort.Slice(files, func(i, j int) bool {
		pi, ni := partNumber(files[i].Name)
		pj, nj := partNumber(files[j].Name)
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})
	return files, nil
}

// partNumber splits "FracFocusRegistry_12.csv" into ("FracFocusRegistry_", 12).
// Names without a trailing number get -1.
func partNumber(name string) (string, int) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return base, -1
	}
	return base[:i], n
}
