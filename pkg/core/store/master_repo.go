package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"corpkb/pkg/models"
)

const schemaName = "edgar_schema"

// MasterRepo bulk-loads the three master tables. Loads are full-snapshot:
// each run's rows are appended under the run's date, mirroring the
// file-based masters.
type MasterRepo struct {
	pool *pgxpool.Pool
}

// NewMasterRepo creates a repository over an initialized pool.
func NewMasterRepo(pool *pgxpool.Pool) *MasterRepo {
	return &MasterRepo{pool: pool}
}

// EnsureSchema creates the schema and master tables if absent.
func (r *MasterRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	stmts := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schemaName),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.parents_master (
			run_date                text NOT NULL,
			parent_ticker           text NOT NULL,
			parent_cik10            text,
			parent_name             text,
			incorp_country          text,
			incorp_country_iso3     text,
			incorp_state_or_region  text,
			legal_form              text,
			latest_20f_year         integer,
			latest_20f_accession    text,
			sources_used            text,
			lineage                 text
		)`, schemaName),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.subs_master (
			run_date          text NOT NULL,
			sub_uuid          text NOT NULL,
			parent_ticker     text,
			parent_cik10      text,
			subsidiary_name   text,
			jurisdiction_raw  text,
			jurisdiction_norm text,
			jurisdiction_iso3 text,
			ownership_pct     double precision,
			first_seen_year   integer,
			last_seen_year    integer,
			accession         text,
			exhibit_label     text,
			parse_confidence  double precision,
			lineage           text
		)`, schemaName),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.addresses_master (
			run_date         text NOT NULL,
			addr_id          text NOT NULL,
			entity_type      text,
			entity_id        text,
			address_raw      text,
			addr_line        text,
			locality         text,
			region           text,
			postal_code      text,
			country_iso3     text,
			source_accession text,
			address_type     text,
			parse_confidence double precision
		)`, schemaName),
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadParents bulk-inserts the parent master rows for one run.
func (r *MasterRepo) LoadParents(ctx context.Context, runDate string, parents []models.ParentRecord) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("database pool not configured")
	}
	rows := make([][]interface{}, 0, len(parents))
	for _, p := range parents {
		lineage, err := json.Marshal(p.Lineage)
		if err != nil {
			return 0, fmt.Errorf("marshal lineage for %s: %w", p.ParentTicker, err)
		}
		rows = append(rows, []interface{}{
			runDate, p.ParentTicker, p.ParentCIK10, p.ParentName,
			p.IncorpCountry, p.IncorpCountryISO3, p.IncorpStateOrRegion,
			p.LegalForm, nullableYear(p.LatestFilingYear), p.LatestFilingAccn,
			strings.Join(p.SourcesUsed, "|"), string(lineage),
		})
	}
	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{schemaName, "parents_master"},
		[]string{
			"run_date", "parent_ticker", "parent_cik10", "parent_name",
			"incorp_country", "incorp_country_iso3", "incorp_state_or_region",
			"legal_form", "latest_20f_year", "latest_20f_accession",
			"sources_used", "lineage",
		},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("load parents_master: %w", err)
	}
	return n, nil
}

// LoadSubsidiaries bulk-inserts the subsidiary master rows for one run.
func (r *MasterRepo) LoadSubsidiaries(ctx context.Context, runDate string, subs []models.SubsidiaryRecord) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("database pool not configured")
	}
	rows := make([][]interface{}, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []interface{}{
			runDate, s.SubUUID, s.ParentTicker, s.ParentCIK10, s.SubsidiaryName,
			s.JurisdictionRaw, s.JurisdictionNorm, s.JurisdictionISO3,
			s.OwnershipPct, nullableYear(s.FirstSeenYear), nullableYear(s.LastSeenYear),
			s.Accession, s.ExhibitLabel, s.ParseConfidence, s.Lineage,
		})
	}
	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{schemaName, "subs_master"},
		[]string{
			"run_date", "sub_uuid", "parent_ticker", "parent_cik10",
			"subsidiary_name", "jurisdiction_raw", "jurisdiction_norm",
			"jurisdiction_iso3", "ownership_pct", "first_seen_year",
			"last_seen_year", "accession", "exhibit_label",
			"parse_confidence", "lineage",
		},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("load subs_master: %w", err)
	}
	return n, nil
}

// LoadAddresses bulk-inserts the address master rows for one run.
func (r *MasterRepo) LoadAddresses(ctx context.Context, runDate string, addrs []models.AddressRecord) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("database pool not configured")
	}
	rows := make([][]interface{}, 0, len(addrs))
	for _, a := range addrs {
		rows = append(rows, []interface{}{
			runDate, a.AddrID, a.EntityType, a.EntityID, a.AddressRaw,
			a.AddrLine, a.Locality, a.Region, a.PostalCode, a.CountryISO3,
			a.SourceAccession, a.AddressType, a.ParseConfidence,
		})
	}
	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{schemaName, "addresses_master"},
		[]string{
			"run_date", "addr_id", "entity_type", "entity_id", "address_raw",
			"addr_line", "locality", "region", "postal_code", "country_iso3",
			"source_accession", "address_type", "parse_confidence",
		},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("load addresses_master: %w", err)
	}
	return n, nil
}

// nullableYear maps the 0 = unknown convention onto SQL NULL.
func nullableYear(y int) interface{} {
	if y == 0 {
		return nil
	}
	return y
}
