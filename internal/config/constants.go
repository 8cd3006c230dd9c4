package config

import "fracfocus/pkg/contracts"

// Application info
const (
	AppName    = "fracfocus"
	AppVersion = contracts.Version
)

// Analysis defaults: the Permian Basin counties where XTO operates, and the
// 2018 calendar year for vendor usage.
const (
	DefaultInputFile         = "fracfocus_data_example.csv"
	DefaultState             = "Texas"
	DefaultStateAbbreviation = "TX"
	DefaultOperator          = "XTO"
	DefaultWindowStart       = "2018-01-01"
	DefaultWindowEnd         = "2019-01-01"
	DefaultMinSupplierUses   = 20
)

// DefaultCounties returns the default county filter.
func DefaultCounties() []string {
	return []string{"Andrews", "Borden", "Crane", "Dawson", "Ector", "Eddy", "Gaines", "Glasscock"}
}

// DefaultColumns returns the FracFocus registry header names.
func DefaultColumns() ColumnsConfig {
	return ColumnsConfig{
		State:                   "StateName",
		County:                  "CountyName",
		Operator:                "OperatorName",
		APINumber:               "APINumber",
		JobStart:                "JobStartDate",
		JobEnd:                  "JobEndDate",
		TotalBaseWaterVolume:    "TotalBaseWaterVolume",
		TotalBaseNonWaterVolume: "TotalBaseNonWaterVolume",
		TVD:                     "TVD",
		Latitude:                "Latitude",
		Longitude:               "Longitude",
		Supplier:                "Supplier",
		TradeName:               "TradeName",
	}
}

// DefaultVendorRules returns the supplier lookup table. Rules run in order
// and each sees the output of the previous ones.
func DefaultVendorRules() []VendorRule {
	return []VendorRule{
		{Pattern: "RISING STAR", Name: "RISING STAR"},
		{Pattern: "CHEMPLEX", Name: "CHEMPLEX"},
		{Pattern: "SAN.*TROL", Name: "SANDTROL"},
		{Pattern: "MULTI.*CHEM", Name: "MULTI-CHEM"},
		{Pattern: "XTO", Name: "OPERATOR"},
		{Pattern: "PFP", Name: "PFP"},
		{Pattern: "CESI", Name: "CESI"},
		{Pattern: "NALCO", Name: "NALCO"},
		{Pattern: "FRITZ", Name: "FRITZ INDUSTRIES"},
		{Pattern: "ASK", Name: "ASK"},
		{Pattern: "ACE", Name: "ACE"},
		{Pattern: "BRENNTAG", Name: "BRENNTAG"},
		{Pattern: "COIL.*CHEM", Name: "COILCHEM"},
		{Pattern: "COOPER", Name: "COOPER NATURAL RESOURCES"},
		{Pattern: "ECONOMY", Name: "ECONOMY POLYMERS"},
		{Pattern: "FINORIC", Name: "FINORIC"},
		{Pattern: "EES", Name: "ENVIRONMENTAL ENERGY SERVICE"},
		{Pattern: "PREFERRED", Name: "PREFERRED SANDS"},
		{Pattern: "ROCKWATER", Name: "ROCKWATER"},
		{Pattern: "SNF", Name: "SNF"},
		{Pattern: "MULTIPLE", Name: "MULTIPLE SUPPLIERS"},
		{Pattern: "REAGENT", Name: "REAGENT"},
		{Pattern: "PRO.*FRAC", Name: "PROFRAC"},
	}
}
