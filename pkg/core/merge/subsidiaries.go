package merge

import (
	"github.com/sirupsen/logrus"

	"corpkb/pkg/core/identity"
	"corpkb/pkg/core/norm"
	"corpkb/pkg/models"
)

// =============================================================================
// SUBSIDIARY MASTER
// =============================================================================

// BuildSubsidiaries normalizes the raw exhibit rows, derives their identity
// keys, and collapses duplicate (parent, key) pairs into single records.
// Duplicates fold rather than drop: FirstSeenYear is the minimum observed
// exhibit year, LastSeenYear the maximum, and the accession, exhibit label,
// and lineage come from the latest-year occurrence. ParseConfidence keeps
// the weakest score among the folded rows so a low-confidence sighting is
// never masked by a later clean one. Output order follows first appearance.
func BuildSubsidiaries(rows []models.RawSubsidiaryRow, n *norm.Normalizer) []models.SubsidiaryRecord {
	type dedupKey struct {
		cik10 string
		uuid  string
	}
	index := map[dedupKey]int{}
	var out []models.SubsidiaryRecord

	for _, row := range rows {
		name := identity.NormalizeSubsidiaryName(row.SubsidiaryNameRaw)
		if name == "" {
			continue
		}
		jNorm, iso3 := n.Normalize(row.JurisdictionRaw)
		rec := models.SubsidiaryRecord{
			SubUUID:          identity.SubsidiaryUUID(row.ParentCIK10, name, jNorm),
			ParentTicker:     row.ParentTicker,
			ParentCIK10:      row.ParentCIK10,
			SubsidiaryName:   name,
			JurisdictionRaw:  row.JurisdictionRaw,
			JurisdictionNorm: jNorm,
			JurisdictionISO3: iso3,
			OwnershipPct:     identity.OwnershipPct(row.OwnershipRaw),
			FirstSeenYear:    row.ExhibitYear,
			LastSeenYear:     row.ExhibitYear,
			Accession:        row.Accession,
			ExhibitLabel:     row.ExhibitLabel,
			ParseConfidence:  row.ParseConfidence,
			Lineage:          row.SourcePath,
		}

		key := dedupKey{row.ParentCIK10, rec.SubUUID}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, rec)
			continue
		}
		out[i] = foldSubsidiary(out[i], rec)
	}

	log.WithFields(logrus.Fields{"raw_rows": len(rows), "subsidiaries": len(out)}).Info("subsidiary master assembled")
	return out
}

// foldSubsidiary merges a later sighting of an already-known subsidiary into
// the existing record.
func foldSubsidiary(have, next models.SubsidiaryRecord) models.SubsidiaryRecord {
	if next.FirstSeenYear < have.FirstSeenYear {
		have.FirstSeenYear = next.FirstSeenYear
	}
	if next.LastSeenYear > have.LastSeenYear {
		have.LastSeenYear = next.LastSeenYear
		have.Accession = next.Accession
		have.ExhibitLabel = next.ExhibitLabel
		have.Lineage = next.Lineage
		if next.OwnershipPct != nil {
			have.OwnershipPct = next.OwnershipPct
		}
	}
	if next.ParseConfidence < have.ParseConfidence {
		have.ParseConfidence = next.ParseConfidence
	}
	return have
}
