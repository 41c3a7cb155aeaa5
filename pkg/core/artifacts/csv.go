// Package artifacts reads and writes the run-dated files crossing the
// pipeline's component boundaries: the upstream collaborator inputs, the
// intermediate extraction tables, and the three master tables. Every codec
// takes explicit paths; discovery of the latest run-dated file is a separate
// helper so components stay testable against fixed fixtures.
package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"corpkb/pkg/models"
)

// header maps column names to indices so reads survive column reordering in
// upstream files.
type header map[string]int

func readTable(path string) (header, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return header{}, nil, nil
	}
	h := header{}
	for i, name := range rows[0] {
		h[strings.TrimSpace(name)] = i
	}
	return h, rows[1:], nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) getInt(row []string, col string) int {
	n, _ := strconv.Atoi(h.get(row, col))
	return n
}

func (h header) getFloat(row []string, col string) float64 {
	f, _ := strconv.ParseFloat(h.get(row, col), 64)
	return f
}

func writeTable(path string, head []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(head); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// COLLABORATOR INPUTS
// =============================================================================

// ReadRoster loads the government roster seed CSV.
func ReadRoster(path string) ([]models.RosterRow, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.RosterRow, 0, len(rows))
	for _, row := range rows {
		r := models.RosterRow{
			Ticker:      h.get(row, "ticker"),
			CompanyName: h.get(row, "company_name"),
			Sector:      h.get(row, "sector"),
			Exchange:    h.get(row, "exchange"),
		}
		if r.Ticker == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ReadDEIFacts loads the scraped DEI facts keyed by ticker.
func ReadDEIFacts(path string) (map[string]models.DEIFacts, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.DEIFacts, len(rows))
	for _, row := range rows {
		d := models.DEIFacts{
			Ticker:            h.get(row, "ticker"),
			RegistrantName:    h.get(row, "registrant_name"),
			IncorpCountryRaw:  h.get(row, "incorp_country_raw"),
			IncorpStateRaw:    h.get(row, "incorp_state_raw"),
			LegalForm:         h.get(row, "legal_form"),
			TradingSymbol:     h.get(row, "trading_symbol"),
			FilerCategory:     h.get(row, "filer_category"),
			DocumentPeriodEnd: h.get(row, "document_period_end"),
		}
		// Some scrape vintages label the country column differently.
		if d.IncorpCountryRaw == "" {
			d.IncorpCountryRaw = h.get(row, "Country_Address")
		}
		if d.Ticker == "" {
			continue
		}
		out[d.Ticker] = d
	}
	return out, nil
}

// =============================================================================
// CIK MAP
// =============================================================================

var cikMapHeader = []string{"ticker", "cik10", "company_name", "mapping_source", "resolved_at"}

func WriteCIKMap(path string, mappings []models.CIKMapping) error {
	rows := make([][]string, 0, len(mappings))
	for _, m := range mappings {
		rows = append(rows, []string{m.Ticker, m.CIK10, m.CompanyName, m.MappingSource, m.ResolvedAt})
	}
	return writeTable(path, cikMapHeader, rows)
}

func ReadCIKMap(path string) ([]models.CIKMapping, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.CIKMapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.CIKMapping{
			Ticker:        h.get(row, "ticker"),
			CIK10:         h.get(row, "cik10"),
			CompanyName:   h.get(row, "company_name"),
			MappingSource: h.get(row, "mapping_source"),
			ResolvedAt:    h.get(row, "resolved_at"),
		})
	}
	return out, nil
}

// =============================================================================
// INTERMEDIATE EXTRACTION TABLES
// =============================================================================

var rawSubsHeader = []string{
	"parent_ticker", "parent_cik10", "accession", "exhibit_label", "exhibit_year",
	"subsidiary_name_raw", "jurisdiction_raw", "ownership_raw", "footnote_marker",
	"source_path", "parse_confidence",
}

func WriteRawSubsidiaries(path string, rows []models.RawSubsidiaryRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.ParentTicker, r.ParentCIK10, r.Accession, r.ExhibitLabel,
			strconv.Itoa(r.ExhibitYear), r.SubsidiaryNameRaw, r.JurisdictionRaw,
			r.OwnershipRaw, r.FootnoteMarker, r.SourcePath,
			formatFloat(r.ParseConfidence),
		})
	}
	return writeTable(path, rawSubsHeader, out)
}

func ReadRawSubsidiaries(path string) ([]models.RawSubsidiaryRow, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.RawSubsidiaryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.RawSubsidiaryRow{
			ParentTicker:      h.get(row, "parent_ticker"),
			ParentCIK10:       h.get(row, "parent_cik10"),
			Accession:         h.get(row, "accession"),
			ExhibitLabel:      h.get(row, "exhibit_label"),
			ExhibitYear:       h.getInt(row, "exhibit_year"),
			SubsidiaryNameRaw: h.get(row, "subsidiary_name_raw"),
			JurisdictionRaw:   h.get(row, "jurisdiction_raw"),
			OwnershipRaw:      h.get(row, "ownership_raw"),
			FootnoteMarker:    h.get(row, "footnote_marker"),
			SourcePath:        h.get(row, "source_path"),
			ParseConfidence:   h.getFloat(row, "parse_confidence"),
		})
	}
	return out, nil
}

var rawAddrHeader = []string{
	"parent_ticker", "parent_cik10", "accession", "exhibit_year",
	"address_raw", "address_type", "source_path", "parse_confidence",
}

func WriteRawAddresses(path string, rows []models.RawAddressRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.ParentTicker, r.ParentCIK10, r.Accession, strconv.Itoa(r.ExhibitYear),
			r.AddressRaw, r.AddressType, r.SourcePath, formatFloat(r.ParseConfidence),
		})
	}
	return writeTable(path, rawAddrHeader, out)
}

func ReadRawAddresses(path string) ([]models.RawAddressRow, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.RawAddressRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.RawAddressRow{
			ParentTicker:    h.get(row, "parent_ticker"),
			ParentCIK10:     h.get(row, "parent_cik10"),
			Accession:       h.get(row, "accession"),
			ExhibitYear:     h.getInt(row, "exhibit_year"),
			AddressRaw:      h.get(row, "address_raw"),
			AddressType:     h.get(row, "address_type"),
			SourcePath:      h.get(row, "source_path"),
			ParseConfidence: h.getFloat(row, "parse_confidence"),
		})
	}
	return out, nil
}

// =============================================================================
// MASTER TABLES
// =============================================================================

var parentsHeader = []string{
	"parent_ticker", "parent_cik10", "parent_name", "incorp_country",
	"incorp_country_iso3", "incorp_state_or_region", "legal_form",
	"latest_20f_year", "latest_20f_accession", "sources_used", "lineage",
}

// WriteParents serializes the parent master. SourcesUsed joins with "|" and
// Lineage marshals to JSON, matching the downstream loader's expectations.
func WriteParents(path string, parents []models.ParentRecord) error {
	rows := make([][]string, 0, len(parents))
	for _, p := range parents {
		lineage, err := json.Marshal(p.Lineage)
		if err != nil {
			return fmt.Errorf("marshal lineage for %s: %w", p.ParentTicker, err)
		}
		rows = append(rows, []string{
			p.ParentTicker, p.ParentCIK10, p.ParentName, p.IncorpCountry,
			p.IncorpCountryISO3, p.IncorpStateOrRegion, p.LegalForm,
			formatYear(p.LatestFilingYear), p.LatestFilingAccn,
			strings.Join(p.SourcesUsed, "|"), string(lineage),
		})
	}
	return writeTable(path, parentsHeader, rows)
}

func ReadParents(path string) ([]models.ParentRecord, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.ParentRecord, 0, len(rows))
	for _, row := range rows {
		p := models.ParentRecord{
			ParentTicker:        h.get(row, "parent_ticker"),
			ParentCIK10:         h.get(row, "parent_cik10"),
			ParentName:          h.get(row, "parent_name"),
			IncorpCountry:       h.get(row, "incorp_country"),
			IncorpCountryISO3:   h.get(row, "incorp_country_iso3"),
			IncorpStateOrRegion: h.get(row, "incorp_state_or_region"),
			LegalForm:           h.get(row, "legal_form"),
			LatestFilingYear:    h.getInt(row, "latest_20f_year"),
			LatestFilingAccn:    h.get(row, "latest_20f_accession"),
			Lineage:             map[string]string{},
		}
		if s := h.get(row, "sources_used"); s != "" {
			p.SourcesUsed = strings.Split(s, "|")
		}
		if l := h.get(row, "lineage"); l != "" {
			if err := json.Unmarshal([]byte(l), &p.Lineage); err != nil {
				return nil, fmt.Errorf("parse lineage for %s: %w", p.ParentTicker, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

var subsHeader = []string{
	"sub_uuid", "parent_ticker", "parent_cik10", "subsidiary_name",
	"jurisdiction_raw", "jurisdiction_norm", "jurisdiction_iso3", "ownership_pct",
	"first_seen_year", "last_seen_year", "accession", "exhibit_label",
	"parse_confidence", "lineage",
}

func WriteSubsidiaries(path string, subs []models.SubsidiaryRecord) error {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		ownership := ""
		if s.OwnershipPct != nil {
			ownership = formatFloat(*s.OwnershipPct)
		}
		rows = append(rows, []string{
			s.SubUUID, s.ParentTicker, s.ParentCIK10, s.SubsidiaryName,
			s.JurisdictionRaw, s.JurisdictionNorm, s.JurisdictionISO3, ownership,
			strconv.Itoa(s.FirstSeenYear), strconv.Itoa(s.LastSeenYear),
			s.Accession, s.ExhibitLabel, formatFloat(s.ParseConfidence), s.Lineage,
		})
	}
	return writeTable(path, subsHeader, rows)
}

func ReadSubsidiaries(path string) ([]models.SubsidiaryRecord, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.SubsidiaryRecord, 0, len(rows))
	for _, row := range rows {
		s := models.SubsidiaryRecord{
			SubUUID:          h.get(row, "sub_uuid"),
			ParentTicker:     h.get(row, "parent_ticker"),
			ParentCIK10:      h.get(row, "parent_cik10"),
			SubsidiaryName:   h.get(row, "subsidiary_name"),
			JurisdictionRaw:  h.get(row, "jurisdiction_raw"),
			JurisdictionNorm: h.get(row, "jurisdiction_norm"),
			JurisdictionISO3: h.get(row, "jurisdiction_iso3"),
			FirstSeenYear:    h.getInt(row, "first_seen_year"),
			LastSeenYear:     h.getInt(row, "last_seen_year"),
			Accession:        h.get(row, "accession"),
			ExhibitLabel:     h.get(row, "exhibit_label"),
			ParseConfidence:  h.getFloat(row, "parse_confidence"),
			Lineage:          h.get(row, "lineage"),
		}
		if v := h.get(row, "ownership_pct"); v != "" {
			pct, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("parse ownership %q for %s: %w", v, s.SubUUID, err)
			}
			s.OwnershipPct = &pct
		}
		out = append(out, s)
	}
	return out, nil
}

var addressesHeader = []string{
	"addr_id", "entity_type", "entity_id", "address_raw", "addr_line",
	"locality", "region", "postal_code", "country_iso3", "source_accession",
	"address_type", "parse_confidence",
}

func WriteAddresses(path string, addrs []models.AddressRecord) error {
	rows := make([][]string, 0, len(addrs))
	for _, a := range addrs {
		rows = append(rows, []string{
			a.AddrID, a.EntityType, a.EntityID, a.AddressRaw, a.AddrLine,
			a.Locality, a.Region, a.PostalCode, a.CountryISO3,
			a.SourceAccession, a.AddressType, formatFloat(a.ParseConfidence),
		})
	}
	return writeTable(path, addressesHeader, rows)
}

func ReadAddresses(path string) ([]models.AddressRecord, error) {
	h, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.AddressRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.AddressRecord{
			AddrID:          h.get(row, "addr_id"),
			EntityType:      h.get(row, "entity_type"),
			EntityID:        h.get(row, "entity_id"),
			AddressRaw:      h.get(row, "address_raw"),
			AddrLine:        h.get(row, "addr_line"),
			Locality:        h.get(row, "locality"),
			Region:          h.get(row, "region"),
			PostalCode:      h.get(row, "postal_code"),
			CountryISO3:     h.get(row, "country_iso3"),
			SourceAccession: h.get(row, "source_accession"),
			AddressType:     h.get(row, "address_type"),
			ParseConfidence: h.getFloat(row, "parse_confidence"),
		})
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatYear renders 0 (unknown) as blank rather than a literal zero year.
func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}
