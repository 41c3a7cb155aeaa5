// Package qc runs the post-merge quality checks over the three master
// tables and selected intermediate artifacts. Every check is independent
// and emits zero or more coded defects; nothing is auto-corrected.
package qc

// Defect codes. Each check tags its findings with exactly one code so the
// summary can aggregate by category.
const (
	CodeMissingIncorpCountry = "MISSING_INCORP_COUNTRY"
	CodeMissingJurisdiction  = "MISSING_JURISDICTION"
	CodeLowParseConfidence   = "LOW_PARSE_CONFIDENCE"
	CodeJurisdictionDrift    = "JURISDICTION_DRIFT"
	CodeNoAddress            = "NO_ADDRESS"
	CodeNoEX21Found          = "NO_EX21_FOUND"
	CodeInvalidCIK           = "INVALID_CIK"
	CodeDuplicateEntry       = "DUPLICATE_ENTRY"
	CodeFileNotFound         = "FILE_NOT_FOUND"
)

var codeDescriptions = map[string]string{
	CodeMissingIncorpCountry: "Parent company missing incorporation country",
	CodeMissingJurisdiction:  "Subsidiary missing jurisdiction",
	CodeLowParseConfidence:   "Parse confidence below threshold",
	CodeJurisdictionDrift:    "Subsidiary jurisdiction changed over time",
	CodeNoAddress:            "Company missing address despite offshore domicile",
	CodeNoEX21Found:          "No subsidiary-list exhibit found for company",
	CodeInvalidCIK:           "Invalid CIK format",
	CodeDuplicateEntry:       "Duplicate entries found",
	CodeFileNotFound:         "Expected file not found",
}

// Critical codes fail the run; everything else is reported but never gates
// the exit status.
var criticalCodes = map[string]bool{
	CodeMissingIncorpCountry: true,
	CodeNoEX21Found:          true,
}

// Critical reports whether a defect code fails the run.
func Critical(code string) bool { return criticalCodes[code] }

// Describe returns the human-readable description for a code, or the code
// itself when unknown.
func Describe(code string) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return code
}
