package models

// =============================================================================
// COLLABORATOR ARTIFACT TYPES
// =============================================================================
// These mirror the file interfaces produced by the out-of-scope fetch stages:
// the roster CSV, the cached SEC ticker table, the scraped DEI facts CSV, the
// per-ticker submissions JSON, and the exhibit download index.

// RosterRow is one company from the government roster seed CSV.
type RosterRow struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	Exchange    string `json:"exchange"`
}

// PendingCIK is the sentinel identifier for tickers absent from the SEC
// lookup table. Downstream stages treat it as "skip", never as an error.
const PendingCIK = "PENDING"

// Mapping sources for CIKMapping.
const (
	MappingSourceOfficial = "SEC_official"
	MappingSourceNotFound = "not_found"
)

// CIKMapping is the resolver's output: one row per roster ticker.
type CIKMapping struct {
	Ticker        string `json:"ticker"`
	CIK10         string `json:"cik10"`
	CompanyName   string `json:"company_name"`
	MappingSource string `json:"mapping_source"`
	ResolvedAt    string `json:"resolved_at"` // RFC 3339 UTC
}

// Resolved reports whether the ticker mapped to a real CIK.
func (m CIKMapping) Resolved() bool {
	return m.CIK10 != "" && m.CIK10 != PendingCIK
}

// DEIFacts holds the Document and Entity Information scraped from a filing's
// inline XBRL tags. Every field is nullable upstream; blank means absent.
type DEIFacts struct {
	Ticker            string `json:"ticker"`
	RegistrantName    string `json:"registrant_name"`
	IncorpCountryRaw  string `json:"incorp_country_raw"`
	IncorpStateRaw    string `json:"incorp_state_raw"`
	LegalForm         string `json:"legal_form"`
	TradingSymbol     string `json:"trading_symbol"`
	FilerCategory     string `json:"filer_category"`
	DocumentPeriodEnd string `json:"document_period_end"`
}

// SubmissionMeta is the subset of the EDGAR submissions JSON the merge
// engine consumes.
type SubmissionMeta struct {
	Name                     string `json:"name"`
	StateOfIncorporationDesc string `json:"stateOfIncorporationDescription"`
	StateOfIncorporation     string `json:"stateOfIncorporation"`
	SICDescription           string `json:"sicDescription"`
}

// Exhibit types in the download index.
const (
	ExhibitSubsidiaries  = "ex21"
	ExhibitSubsidiaries8 = "ex8"
	ExhibitCharter       = "ex3"
)

// ExhibitRef is one downloaded exhibit in the collaborator's exhibit index.
type ExhibitRef struct {
	Ticker       string `json:"ticker"`
	CIK10        string `json:"cik10"`
	Accession    string `json:"accession"`
	ExhibitType  string `json:"exhibit_type"`
	ExhibitLabel string `json:"exhibit_label"`
	LocalPath    string `json:"localPath"`
	Href         string `json:"href"`
	Year         int    `json:"year"`
	SHA256       string `json:"sha256"`
	Bytes        int64  `json:"bytes"`
}

// =============================================================================
// INTERMEDIATE EXTRACTION ROWS
// =============================================================================

// RawSubsidiaryRow is one row read out of a subsidiary-list exhibit table,
// before normalization and identity derivation.
type RawSubsidiaryRow struct {
	ParentTicker      string  `json:"parent_ticker"`
	ParentCIK10       string  `json:"parent_cik10"`
	Accession         string  `json:"accession"`
	ExhibitLabel      string  `json:"exhibit_label"`
	ExhibitYear       int     `json:"exhibit_year"`
	SubsidiaryNameRaw string  `json:"subsidiary_name_raw"`
	JurisdictionRaw   string  `json:"jurisdiction_raw"`
	OwnershipRaw      string  `json:"ownership_raw"`
	FootnoteMarker    string  `json:"footnote_marker"`
	SourcePath        string  `json:"source_path"`
	ParseConfidence   float64 `json:"parse_confidence"`
}

// RawAddressRow is one candidate address block extracted from a charter or
// filing document.
type RawAddressRow struct {
	ParentTicker    string  `json:"parent_ticker"`
	ParentCIK10     string  `json:"parent_cik10"`
	Accession       string  `json:"accession"`
	ExhibitYear     int     `json:"exhibit_year"`
	AddressRaw      string  `json:"address_raw"`
	AddressType     string  `json:"address_type"`
	SourcePath      string  `json:"source_path"`
	ParseConfidence float64 `json:"parse_confidence"`
}

// ParseError records a document or row that failed to parse. Parse errors
// are collected and logged, never raised past the extractor boundary.
type ParseError struct {
	ParentTicker string `json:"parent_ticker"`
	ParentCIK10  string `json:"parent_cik10"`
	Accession    string `json:"accession"`
	ExhibitLabel string `json:"exhibit_label"`
	ExhibitYear  int    `json:"exhibit_year"`
	Href         string `json:"href"`
	SourcePath   string `json:"source_path"`
	Error        string `json:"error"`
}
