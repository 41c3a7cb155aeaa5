package address

import (
	"regexp"
	"strings"

	"corpkb/pkg/core/norm"
)

// Components is the best-effort structural decomposition of a raw address.
// Every field is optional; an empty string means the component could not be
// determined, never a fabricated default.
type Components struct {
	AddrLine    string
	Locality    string
	Region      string
	PostalCode  string
	CountryISO3 string
}

var postalCodeRe = regexp.MustCompile(`\b\d{5,6}\b`)

// Decompose splits a raw address on commas and assigns segments positionally:
// leading segments form the street line, the last recognizable country
// segment sets the country, and the segments before it become locality and
// region. Unrecognized trailing segments stay in the street line rather than
// being guessed at.
func Decompose(raw string, n *norm.Normalizer) Components {
	var c Components
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c
	}

	if m := postalCodeRe.FindString(raw); m != "" {
		c.PostalCode = m
	}

	segs := splitSegments(raw)
	if len(segs) == 0 {
		c.AddrLine = raw
		return c
	}

	// Walk from the right: country first, then region, then locality.
	last := len(segs)
	if last > 0 {
		if name, iso3 := n.Normalize(segs[last-1]); iso3 != "" {
			c.CountryISO3 = iso3
			// A country like Hong Kong or Singapore is its own locality when
			// nothing more specific precedes it.
			c.Region = name
			last--
		}
	}
	// A locality segment carries no digits; numbered segments stay in the
	// street line.
	if last > 0 && c.CountryISO3 != "" && !strings.ContainsAny(segs[last-1], "0123456789") {
		c.Locality = segs[last-1]
		last--
	}

	if last > 0 {
		c.AddrLine = strings.Join(segs[:last], ", ")
	} else {
		c.AddrLine = segs[0]
	}
	return c
}

func splitSegments(raw string) []string {
	var segs []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}
