// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and registry fixtures that render FracFocus exports:
//
//	func TestPipeline(t *testing.T) {
//	    path := testutil.WriteRegistry(t, testutil.DefaultRows())
//	    logger, handler := testutil.NewTestLogger(t)
//	    ...
//	}
package shared
