package merge

import (
	"github.com/sirupsen/logrus"

	"corpkb/pkg/core/address"
	"corpkb/pkg/core/identity"
	"corpkb/pkg/core/norm"
	"corpkb/pkg/models"
)

// =============================================================================
// ADDRESS MASTER
// =============================================================================

// BuildAddresses assembles the address master from the charter extraction
// rows (parent entities, keyed by CIK) plus one null-address placeholder per
// subsidiary record. Charter exhibits carry no per-subsidiary addresses, so
// the placeholder reserves the row without fabricating a value. Rows are
// deduplicated by AddrID, which hashes the raw text verbatim: differently
// formatted strings for the same office stay distinct on purpose.
func BuildAddresses(raw []models.RawAddressRow, subs []models.SubsidiaryRecord, n *norm.Normalizer) []models.AddressRecord {
	seen := map[string]bool{}
	var out []models.AddressRecord

	for _, r := range raw {
		rec := models.AddressRecord{
			AddrID:          identity.AddressID(r.ParentCIK10, r.AddressRaw),
			EntityType:      models.EntityParent,
			EntityID:        r.ParentCIK10,
			AddressRaw:      r.AddressRaw,
			SourceAccession: r.Accession,
			AddressType:     r.AddressType,
			ParseConfidence: r.ParseConfidence,
		}
		c := address.Decompose(r.AddressRaw, n)
		rec.AddrLine = c.AddrLine
		rec.Locality = c.Locality
		rec.Region = c.Region
		rec.PostalCode = c.PostalCode
		rec.CountryISO3 = c.CountryISO3

		if seen[rec.AddrID] {
			continue
		}
		seen[rec.AddrID] = true
		out = append(out, rec)
	}

	for _, s := range subs {
		rec := models.AddressRecord{
			AddrID:          identity.AddressID(s.SubUUID, ""),
			EntityType:      models.EntitySubsidiary,
			EntityID:        s.SubUUID,
			SourceAccession: s.Accession,
			ParseConfidence: s.ParseConfidence,
		}
		if seen[rec.AddrID] {
			continue
		}
		seen[rec.AddrID] = true
		out = append(out, rec)
	}

	log.WithFields(logrus.Fields{
		"parent_rows": len(raw),
		"addresses":   len(out),
	}).Info("address master assembled")
	return out
}
