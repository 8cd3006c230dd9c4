// Package registry loads a FracFocus disclosure registry export and narrows
// it to the rows an analysis is interested in.
//
// The table is held in a gota DataFrame with every column typed as string;
// typed conversion happens later in dataprocessing, once the rows of interest
// are known. Filtering, projection and deduplication are thin wrappers over
// the DataFrame operations:
//
//	reg, err := registry.Load("fracfocus_data_example.csv", registry.Options{})
//	if err != nil {
//	    return err
//	}
//	rows, err := search.Filter(reg.Frame, reg.Columns)
//	jobs, err := registry.Distinct(rows, reg.Columns.Characteristics(), nil)
package registry
