// Package models defines the typed records flowing through the pipeline:
// upstream collaborator artifacts, intermediate extraction rows, and the
// three master tables.
package models

// =============================================================================
// MASTER RECORDS
// =============================================================================

// Source tags used in ParentRecord.SourcesUsed and Lineage keys.
const (
	SourceDEI         = "DEI"
	SourceCIK         = "CIK"
	SourceSubmissions = "submissions"
	SourceUSCC        = "USCC"
	SourceEX21        = "EX-21"
)

// ParentRecord is one resolved listed company, assembled by the merge engine.
// SourcesUsed records which upstream sources contributed at least one field,
// in the order they were consulted; Lineage maps each source tag to the exact
// artifact that supplied the value.
type ParentRecord struct {
	ParentTicker        string            `json:"parent_ticker"`
	ParentCIK10         string            `json:"parent_cik10"`
	ParentName          string            `json:"parent_name"`
	IncorpCountry       string            `json:"incorp_country"`
	IncorpCountryISO3   string            `json:"incorp_country_iso3"`
	IncorpStateOrRegion string            `json:"incorp_state_or_region"`
	LegalForm           string            `json:"legal_form"`
	LatestFilingYear    int               `json:"latest_20f_year"` // 0 = unknown
	LatestFilingAccn    string            `json:"latest_20f_accession"`
	SourcesUsed         []string          `json:"sources_used"`
	Lineage             map[string]string `json:"lineage"`
}

// SubsidiaryRecord is one deduplicated (parent, name, jurisdiction) entity
// observed in subsidiary-list exhibits. SubUUID is a pure function of
// (ParentCIK10, SubsidiaryName, JurisdictionNorm) and stable across runs.
type SubsidiaryRecord struct {
	SubUUID          string   `json:"sub_uuid"`
	ParentTicker     string   `json:"parent_ticker"`
	ParentCIK10      string   `json:"parent_cik10"`
	SubsidiaryName   string   `json:"subsidiary_name"`
	JurisdictionRaw  string   `json:"jurisdiction_raw"`
	JurisdictionNorm string   `json:"jurisdiction_norm"`
	JurisdictionISO3 string   `json:"jurisdiction_iso3"` // "" = unmapped
	OwnershipPct     *float64 `json:"ownership_pct"`     // nil = not asserted
	FirstSeenYear    int      `json:"first_seen_year"`
	LastSeenYear     int      `json:"last_seen_year"`
	Accession        string   `json:"accession"`
	ExhibitLabel     string   `json:"exhibit_label"`
	ParseConfidence  float64  `json:"parse_confidence"`
	Lineage          string   `json:"lineage"`
}

// Entity types for AddressRecord.
const (
	EntityParent     = "parent"
	EntitySubsidiary = "subsidiary"
)

// Address classifications.
const (
	AddrRegisteredOffice = "registered_office"
	AddrPrincipalOffice  = "principal_office"
	AddrAgent            = "agent_address"
	AddrOther            = "other"
)

// AddressRecord is one (entity, raw address text) pair. AddrID is a
// deterministic hash of EntityID + AddressRaw so incremental re-runs do not
// duplicate rows; it is intentionally not normalization-aware.
type AddressRecord struct {
	AddrID          string  `json:"addr_id"`
	EntityType      string  `json:"entity_type"`
	EntityID        string  `json:"entity_id"`
	AddressRaw      string  `json:"address_raw"`
	AddrLine        string  `json:"addr_line"`
	Locality        string  `json:"locality"`
	Region          string  `json:"region"`
	PostalCode      string  `json:"postal_code"`
	CountryISO3     string  `json:"country_iso3"`
	SourceAccession string  `json:"source_accession"`
	AddressType     string  `json:"address_type"`
	ParseConfidence float64 `json:"parse_confidence"`
}
