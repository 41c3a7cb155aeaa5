package exhibit

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var spaceRe = regexp.MustCompile(`\s+`)

func cleanCell(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Row is one raw subsidiary tuple read from an exhibit table.
type Row struct {
	SubsidiaryRaw   string
	JurisdictionRaw string
	OwnershipRaw    string
}

// TableResult is the outcome of parsing a single exhibit document.
type TableResult struct {
	Rows       []Row
	Confidence float64 // 0 when no table was found
}

// Confidence levels assigned by structural parse quality. The QC auditor
// flags anything under its threshold, so weak assignments surface instead of
// passing silently.
const (
	confFull            = 1.0
	confNoJurisdiction  = 0.8
	confAmbiguousHeader = 0.75
)

// Parser turns subsidiary-list HTML into raw rows.
type Parser struct {
	scoring *ScoringTable
}

// NewParser creates a parser with the default scoring table.
func NewParser() *Parser {
	return &Parser{scoring: DefaultScoringTable()}
}

// NewParserWithScoring creates a parser with a caller-supplied scoring table.
func NewParserWithScoring(t *ScoringTable) *Parser {
	return &Parser{scoring: t}
}

// Parse extracts subsidiary rows from the first table of the document.
// No table, or a table with no usable rows, is an empty result, not an error.
// A row with no name value is discarded: the name is the minimum viable
// signal for a subsidiary record.
func (p *Parser) Parse(html string) (TableResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return TableResult{}, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return TableResult{}, nil
	}

	trs := table.Find("tr")
	if trs.Length() < 2 {
		return TableResult{}, nil
	}

	var headers []string
	trs.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, cleanCell(cell.Text()))
	})

	assign := p.scoring.Assign(headers)
	if assign.Name < 0 {
		// Without a name column there is nothing extractable.
		return TableResult{}, nil
	}

	confidence := confFull
	if assign.Jurisdiction < 0 {
		confidence = confNoJurisdiction
	}
	if assign.Ambiguous && confAmbiguousHeader < confidence {
		confidence = confAmbiguousHeader
	}

	var rows []Row
	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cleanCell(cell.Text()))
		})

		blank := true
		for _, c := range cells {
			if c != "" {
				blank = false
				break
			}
		}
		if blank {
			return
		}

		at := func(idx int) string {
			if idx >= 0 && idx < len(cells) {
				return cells[idx]
			}
			return ""
		}

		row := Row{
			SubsidiaryRaw:   at(assign.Name),
			JurisdictionRaw: at(assign.Jurisdiction),
			OwnershipRaw:    at(assign.Ownership),
		}
		if row.SubsidiaryRaw == "" {
			return
		}
		rows = append(rows, row)
	})

	if len(rows) == 0 {
		return TableResult{}, nil
	}
	return TableResult{Rows: rows, Confidence: confidence}, nil
}
