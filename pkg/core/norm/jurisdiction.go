// Package norm canonicalizes free-text jurisdiction and country strings to a
// controlled vocabulary and ISO3 codes. The alias and code tables are data,
// overridable from an hjson file, so heuristic coverage can grow without code
// changes.
package norm

import (
	"os"
	"regexp"
	"strings"

	"github.com/hjson/hjson-go/v4"
)

var (
	boilerplateRe = regexp.MustCompile(`(?i)Jurisdiction.*Organization`)
	nonAlphaRe    = regexp.MustCompile(`[^A-Za-z' ]`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// Normalizer maps raw jurisdiction text to a canonical name and ISO3 code.
type Normalizer struct {
	aliases map[string]string // raw (cleaned) -> canonical
	iso3    map[string]string // canonical -> ISO3
}

// NewNormalizer returns a normalizer seeded with the curated default tables.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]string, len(defaultAliases)),
		iso3:    make(map[string]string, len(defaultISO3)),
	}
	for k, v := range defaultAliases {
		n.aliases[k] = v
	}
	for k, v := range defaultISO3 {
		n.iso3[k] = v
	}
	return n
}

// tableOverrides is the hjson override file shape.
type tableOverrides struct {
	Aliases map[string]string `json:"aliases"`
	ISO3    map[string]string `json:"iso3"`
}

// LoadOverrides merges alias/ISO3 entries from an hjson file on top of the
// defaults. Entries win over defaults key by key.
func (n *Normalizer) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var o tableOverrides
	if err := hjson.Unmarshal(data, &o); err != nil {
		return err
	}
	for k, v := range o.Aliases {
		n.aliases[k] = v
	}
	for k, v := range o.ISO3 {
		n.iso3[k] = v
	}
	return nil
}

// Clean strips encoding artifacts, exhibit-header boilerplate, and
// non-alphabetic noise from a raw jurisdiction string.
func Clean(raw string) string {
	j := strings.TrimSpace(raw)
	j = strings.ReplaceAll(j, "â€™", "'") // mojibake apostrophe
	j = boilerplateRe.ReplaceAllString(j, "")
	j = nonAlphaRe.ReplaceAllString(j, "")
	j = spaceRe.ReplaceAllString(j, " ")
	return strings.TrimSpace(j)
}

// Normalize canonicalizes a raw jurisdiction string. It returns the canonical
// name and the ISO3 code ("" when unmapped). Unmapped values normalize to the
// cleaned input; a non-empty input never produces an empty canonical name and
// never an error.
func (n *Normalizer) Normalize(raw string) (string, string) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return "", ""
	}
	canonical, ok := n.aliases[cleaned]
	if !ok {
		// Alias table is keyed case-sensitively on the common spellings;
		// fall back to a case-insensitive pass before giving up.
		lower := strings.ToLower(cleaned)
		for k, v := range n.aliases {
			if strings.ToLower(k) == lower {
				canonical = v
				ok = true
				break
			}
		}
	}
	if !ok {
		canonical = cleaned
	}
	return canonical, n.iso3[canonical]
}

// ISO3 returns the code for an already-canonical name, "" when unmapped.
func (n *Normalizer) ISO3(canonical string) string {
	return n.iso3[canonical]
}

// CountryFromDEI expands the country codes and long-form names seen in DEI
// incorporation tags to the canonical vocabulary. Unknown values pass through
// the general Normalize path.
func (n *Normalizer) CountryFromDEI(raw string) (string, string) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := deiCountryCodes[key]; ok {
		return canonical, n.iso3[canonical]
	}
	return n.Normalize(raw)
}
