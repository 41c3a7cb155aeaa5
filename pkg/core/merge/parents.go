// Package merge assembles the three master tables from resolver output,
// scraped facts, submission metadata, and the raw extraction rows. Each
// builder is a pure function over in-memory inputs; loading the artifact
// files is the caller's job.
package merge

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"corpkb/pkg/core/norm"
	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "merge")

// Sources bundles the optional upstream artifacts consulted by the parent
// waterfall. A nil map means the artifact was unavailable for this run; the
// waterfall degrades past it without error. The *Path fields are the lineage
// locators recorded against each contributing source tag.
type Sources struct {
	DEI     map[string]models.DEIFacts
	DEIPath string

	CIKPath string

	Submissions    map[string]models.SubmissionMeta
	SubmissionsDir string

	Roster     map[string]string
	RosterPath string

	ExhibitRows []models.RawSubsidiaryRow
}

func (s Sources) submissionsPath(ticker string) string {
	return filepath.Join(s.SubmissionsDir, ticker, "submissions.json")
}

// =============================================================================
// PARENT WATERFALL
// =============================================================================

// BuildParents produces one ParentRecord per resolver mapping, consulting
// sources in fixed priority order. Name resolution: DEI registrant name,
// then submissions name, then the roster name. Ticker and CIK presence
// contribute their own source tags independent of the name waterfall.
// Incorporation state falls back to the submissions description when the
// scraped facts leave it blank. Every record carries at least one entry in
// SourcesUsed, defaulting to the DEI tag when nothing contributed.
func BuildParents(mappings []models.CIKMapping, src Sources, n *norm.Normalizer) []models.ParentRecord {
	parents := make([]models.ParentRecord, 0, len(mappings))
	for _, m := range mappings {
		parents = append(parents, buildParent(m, src, n))
	}
	log.WithField("parents", len(parents)).Info("parent master assembled")
	return parents
}

func buildParent(m models.CIKMapping, src Sources, n *norm.Normalizer) models.ParentRecord {
	rec := models.ParentRecord{
		ParentTicker: m.Ticker,
		ParentCIK10:  m.CIK10,
		Lineage:      map[string]string{},
	}
	dei, hasDEI := src.DEI[m.Ticker]
	sub, hasSub := src.Submissions[m.Ticker]

	used := func(tag string) bool {
		for _, s := range rec.SourcesUsed {
			if s == tag {
				return true
			}
		}
		return false
	}
	contribute := func(tag, locator string) {
		if !used(tag) {
			rec.SourcesUsed = append(rec.SourcesUsed, tag)
		}
		rec.Lineage[tag] = locator
	}

	// Name waterfall: only the first source that yields a value is credited
	// with the name.
	switch {
	case hasDEI && dei.RegistrantName != "":
		rec.ParentName = dei.RegistrantName
		contribute(models.SourceDEI, src.DEIPath)
	case hasSub && sub.Name != "":
		rec.ParentName = sub.Name
		contribute(models.SourceSubmissions, src.submissionsPath(m.Ticker))
	case src.Roster[m.Ticker] != "":
		rec.ParentName = src.Roster[m.Ticker]
		contribute(models.SourceUSCC, src.RosterPath)
	}

	// Ticker and CIK presence are contributions in their own right.
	if m.Ticker != "" && !used(models.SourceDEI) {
		contribute(models.SourceDEI, src.DEIPath)
	}
	if m.Resolved() {
		contribute(models.SourceCIK, src.CIKPath)
	}

	if hasDEI {
		rec.IncorpCountry, rec.IncorpCountryISO3 = n.CountryFromDEI(dei.IncorpCountryRaw)
		rec.IncorpStateOrRegion = dei.IncorpStateRaw
		rec.LegalForm = dei.LegalForm
	}
	if rec.IncorpStateOrRegion == "" && hasSub && sub.StateOfIncorporationDesc != "" {
		rec.IncorpStateOrRegion = sub.StateOfIncorporationDesc
		contribute(models.SourceSubmissions, src.submissionsPath(m.Ticker))
	}

	if row, ok := latestExhibitRow(src.ExhibitRows, m.Ticker, m.CIK10); ok {
		rec.LatestFilingYear = row.ExhibitYear
		rec.LatestFilingAccn = row.Accession
		contribute(models.SourceEX21, row.SourcePath)
	}

	// A record never ships with an empty provenance trail.
	if len(rec.SourcesUsed) == 0 {
		contribute(models.SourceDEI, src.DEIPath)
	}
	return rec
}

// latestExhibitRow picks the maximum-year raw exhibit row belonging to the
// parent, matching by ticker or by CIK. Returns false when the parent has no
// exhibit rows at all.
func latestExhibitRow(rows []models.RawSubsidiaryRow, ticker, cik10 string) (models.RawSubsidiaryRow, bool) {
	var best models.RawSubsidiaryRow
	found := false
	for _, r := range rows {
		if r.ParentTicker != ticker && (cik10 == "" || r.ParentCIK10 != cik10) {
			continue
		}
		if !found || r.ExhibitYear > best.ExhibitYear {
			best = r
			found = true
		}
	}
	return best, found
}
