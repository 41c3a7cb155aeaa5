package address

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "address")

// BatchResult aggregates address extraction across charter exhibits. Failed
// documents are recorded and skipped, never aborting the batch.
type BatchResult struct {
	Rows   []models.RawAddressRow
	Errors []models.ParseError
}

// Extractor runs block extraction over the charter exhibits of an index.
type Extractor struct{}

// NewExtractor creates an address extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractDocument parses one HTML charter document into typed address blocks,
// deduplicated against the caller's seen map.
func (e *Extractor) ExtractDocument(data []byte, seen map[string]bool) ([]Block, error) {
	lines, err := HTMLToLines(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Dedup(ExtractBlocks(lines), seen), nil
}

// ExtractAll processes every charter exhibit (ex3) of the index. Dedup is
// per company and carries across that company's documents. PDF exhibits are
// skipped with a logged note: text extraction from PDFs belongs to the
// upstream conversion collaborator.
func (e *Extractor) ExtractAll(index []models.ExhibitRef) BatchResult {
	var res BatchResult
	seenByCompany := make(map[string]map[string]bool)

	for _, ref := range index {
		if ref.ExhibitType != models.ExhibitCharter {
			continue
		}
		if ref.CIK10 == models.PendingCIK {
			log.WithField("ticker", ref.Ticker).Debug("skipping charter for unresolved CIK")
			continue
		}

		ctx := log.WithFields(logrus.Fields{
			"ticker":    ref.Ticker,
			"accession": ref.Accession,
			"exhibit":   ref.ExhibitLabel,
		})

		lower := strings.ToLower(ref.LocalPath)
		if !strings.HasSuffix(lower, ".htm") && !strings.HasSuffix(lower, ".html") {
			ctx.WithField("path", ref.LocalPath).Info("non-HTML charter skipped")
			continue
		}

		data, err := os.ReadFile(ref.LocalPath)
		if err != nil {
			ctx.WithError(err).Error("failed to read charter file")
			res.Errors = append(res.Errors, models.ParseError{
				ParentTicker: ref.Ticker,
				ParentCIK10:  ref.CIK10,
				Accession:    ref.Accession,
				ExhibitLabel: ref.ExhibitLabel,
				ExhibitYear:  ref.Year,
				Href:         ref.Href,
				SourcePath:   ref.LocalPath,
				Error:        fmt.Sprintf("failed to read local file %s: %v", ref.LocalPath, err),
			})
			continue
		}

		seen := seenByCompany[ref.CIK10]
		if seen == nil {
			seen = make(map[string]bool)
			seenByCompany[ref.CIK10] = seen
		}

		blocks, err := e.ExtractDocument(data, seen)
		if err != nil {
			ctx.WithError(err).Error("failed to parse charter HTML")
			res.Errors = append(res.Errors, models.ParseError{
				ParentTicker: ref.Ticker,
				ParentCIK10:  ref.CIK10,
				Accession:    ref.Accession,
				ExhibitLabel: ref.ExhibitLabel,
				ExhibitYear:  ref.Year,
				Href:         ref.Href,
				SourcePath:   ref.LocalPath,
				Error:        fmt.Sprintf("parse failure: %v", err),
			})
			continue
		}

		for _, b := range blocks {
			res.Rows = append(res.Rows, models.RawAddressRow{
				ParentTicker:    ref.Ticker,
				ParentCIK10:     ref.CIK10,
				Accession:       ref.Accession,
				ExhibitYear:     ref.Year,
				AddressRaw:      b.Raw,
				AddressType:     b.Type,
				SourcePath:      ref.LocalPath,
				ParseConfidence: b.Confidence,
			})
		}
		if len(blocks) > 0 {
			ctx.WithField("addresses", len(blocks)).Info("extracted address blocks")
		}
	}

	return res
}
