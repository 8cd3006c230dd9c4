// Package config provides centralized configuration management for fracfocus.
// It loads the analysis parameters, column mapping, output layout, logging,
// telemetry and viewer settings, validates them, and exposes the output
// paths of a run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources, later ones winning:
//
//  1. Default values (struct tags, mirroring constants.go)
//  2. Environment variables, namespaced FRAC_*
//  3. A YAML file passed with -config
//  4. Command-line flags
//
// # Environment Variables
//
//	FRAC_ANALYSIS_INPUT_FILE=registry.csv
//	FRAC_ANALYSIS_COUNTIES=Andrews,Ector,Midland
//	FRAC_ANALYSIS_OPERATOR=XTO
//	FRAC_OUTPUT_CHART_FORMAT=svg
//	FRAC_LOGGING_LEVEL=debug
//	FRAC_TELEMETRY_METRICS_TEXTFILE=/var/lib/node_exporter/fracfocus.prom
//
// # Vendor Rules
//
// The supplier lookup table is ordered and can only be replaced from YAML:
//
//	vendors:
//	  - pattern: "SAN.*TROL"
//	    name: SANDTROL
package config
