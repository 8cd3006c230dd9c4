// Package dataprocessing turns filtered registry rows into typed jobs and
// vendor uses, cleans supplier names and aggregates vendor usage by quarter.
//
// # Data Flow
//
//	DataFrame → ExtractJobs       → []domain.FracJob   → Describe
//	DataFrame → ExtractVendorUses → []domain.VendorUse → Summarizer → domain.UsagePivot
//
// Supplier names are cleaned by a VendorCleaner built from an ordered list
// of rules. Every rule is tried in turn against the upper-cased value and a
// match replaces the whole value with the rule's canonical name, so a later
// rule sees the output of earlier ones.
//
// # Missing Values
//
// Dates that are empty or in an unknown layout become the zero time and
// numbers that cannot be parsed become NaN. Jobs without a start date never
// reach a quarter and are excluded from time based outputs.
package dataprocessing
