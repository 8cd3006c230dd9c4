// Package http serves the results of one analysis run to a browser.
//
// The viewer stands in for interactive chart windows: the index page embeds
// every rendered chart with the run summary and the vendor usage table, and
// the same data is available as JSON.
//
//	GET /                index page
//	GET /charts/{name}   rendered chart bytes
//	GET /api/summary     run summary as JSON
//	GET /api/health      liveness and version
package http
