// Package exhibit extracts subsidiary listings from loosely-structured
// EX-21/EX-8 HTML tables. Column semantics are recovered by scoring each
// header cell against keyword sets; the scoring table is versioned data, not
// inline conditionals, and can be overridden from an hjson file.
package exhibit

import (
	"os"
	"strings"

	"github.com/hjson/hjson-go/v4"
)

// Semantic fields a subsidiary table may carry.
const (
	FieldName         = "name"
	FieldJurisdiction = "jurisdiction"
	FieldOwnership    = "ownership"
)

const (
	specificWeight = 10
	genericWeight  = 1
)

// ScoringTable holds, per field, the generic keywords worth one point each
// and the specific keywords worth ten. A "subsidiar" header beats a bare
// "name" header for the name field.
type ScoringTable struct {
	Generic  map[string][]string `json:"generic"`
	Specific map[string][]string `json:"specific"`
}

// DefaultScoringTable returns the curated header keyword sets.
func DefaultScoringTable() *ScoringTable {
	return &ScoringTable{
		Generic: map[string][]string{
			FieldName:         {"subsidiar", "company", "name", "entity"},
			FieldJurisdiction: {"jurisdiction", "country", "place", "state", "incorporated", "organization"},
			FieldOwnership:    {"owner", "owned", "percentage", "%", "interest"},
		},
		Specific: map[string][]string{
			FieldName:         {"subsidiar"},
			FieldJurisdiction: {"jurisdiction", "incorporated"},
			FieldOwnership:    {"owner", "%"},
		},
	}
}

// LoadScoringTable reads a full replacement table from an hjson file.
func LoadScoringTable(path string) (*ScoringTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t ScoringTable
	if err := hjson.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Score rates one header cell against one field. Higher is better; zero means
// no signal at all.
func (t *ScoringTable) Score(header, field string) int {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return 0
	}
	score := 0
	for _, kw := range t.Specific[field] {
		if strings.Contains(h, kw) {
			score += specificWeight
		}
	}
	for _, kw := range t.Generic[field] {
		if strings.Contains(h, kw) {
			score += genericWeight
		}
	}
	return score
}

// Assignment maps each semantic field to a single column index, -1 when no
// column scored. Ties between columns keep the leftmost; Ambiguous records
// that a tie happened so callers can lower their confidence in the parse.
type Assignment struct {
	Name         int
	Jurisdiction int
	Ownership    int
	Ambiguous    bool
}

// Assign picks the single best column per field by score, leftmost on ties.
// A later column matching the winning score is a deliberate simplification
// (see the ambiguity flag), not a correctness guarantee.
func (t *ScoringTable) Assign(headers []string) Assignment {
	a := Assignment{Name: -1, Jurisdiction: -1, Ownership: -1}

	pick := func(field string) (int, bool) {
		best, bestScore, tied := -1, 0, false
		for i, h := range headers {
			score := t.Score(h, field)
			if score > bestScore {
				best, bestScore, tied = i, score, false
			} else if score > 0 && score == bestScore && best >= 0 {
				tied = true
			}
		}
		return best, tied
	}

	var tie bool
	a.Name, tie = pick(FieldName)
	a.Ambiguous = a.Ambiguous || tie
	a.Jurisdiction, tie = pick(FieldJurisdiction)
	a.Ambiguous = a.Ambiguous || tie
	a.Ownership, _ = pick(FieldOwnership)
	return a
}
