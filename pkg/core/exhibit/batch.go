package exhibit

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "exhibit")

// BatchResult aggregates extraction across an exhibit index. Errors never
// abort the batch; each failed document is recorded with full context and
// skipped.
type BatchResult struct {
	Rows   []models.RawSubsidiaryRow
	Errors []models.ParseError
}

// ExtractAll parses every subsidiary-list exhibit (ex21/ex8) in the index,
// reading documents from their local paths. Parents with a PENDING CIK are
// skipped, not errored.
func (p *Parser) ExtractAll(index []models.ExhibitRef) BatchResult {
	var res BatchResult

	for _, ref := range index {
		if ref.ExhibitType != models.ExhibitSubsidiaries && ref.ExhibitType != models.ExhibitSubsidiaries8 {
			continue
		}
		if ref.CIK10 == models.PendingCIK {
			log.WithField("ticker", ref.Ticker).Debug("skipping exhibit for unresolved CIK")
			continue
		}

		ctx := log.WithFields(logrus.Fields{
			"ticker":    ref.Ticker,
			"accession": ref.Accession,
			"exhibit":   ref.ExhibitLabel,
		})

		data, err := os.ReadFile(ref.LocalPath)
		if err != nil {
			ctx.WithError(err).Error("failed to read exhibit file")
			res.Errors = append(res.Errors, parseError(ref, fmt.Sprintf("failed to read local file %s: %v", ref.LocalPath, err)))
			continue
		}

		parsed, err := p.Parse(string(data))
		if err != nil {
			ctx.WithError(err).Error("failed to parse exhibit HTML")
			res.Errors = append(res.Errors, parseError(ref, fmt.Sprintf("parse failure: %v", err)))
			continue
		}
		if len(parsed.Rows) == 0 {
			ctx.Info("no subsidiaries found in exhibit")
			continue
		}

		for _, row := range parsed.Rows {
			res.Rows = append(res.Rows, models.RawSubsidiaryRow{
				ParentTicker:      ref.Ticker,
				ParentCIK10:       ref.CIK10,
				Accession:         ref.Accession,
				ExhibitLabel:      ref.ExhibitLabel,
				ExhibitYear:       ref.Year,
				SubsidiaryNameRaw: row.SubsidiaryRaw,
				JurisdictionRaw:   row.JurisdictionRaw,
				OwnershipRaw:      row.OwnershipRaw,
				SourcePath:        ref.LocalPath,
				ParseConfidence:   parsed.Confidence,
			})
		}
		ctx.WithField("rows", len(parsed.Rows)).Info("extracted subsidiary rows")
	}

	return res
}

func parseError(ref models.ExhibitRef, msg string) models.ParseError {
	return models.ParseError{
		ParentTicker: ref.Ticker,
		ParentCIK10:  ref.CIK10,
		Accession:    ref.Accession,
		ExhibitLabel: ref.ExhibitLabel,
		ExhibitYear:  ref.Year,
		Href:         ref.Href,
		SourcePath:   ref.LocalPath,
		Error:        msg,
	}
}
