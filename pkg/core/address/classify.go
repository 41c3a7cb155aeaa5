// Package address extracts candidate postal-address blocks from free-text
// charter and filing documents. Legal text has no reliable schema, so the
// classifier trades recall for precision: a line needs either an explicit
// lead phrase or strong lexical cues (street/unit numbers plus street or city
// keywords) before it is treated as part of an address, and common legal
// boilerplate contexts are excluded outright.
package address

import (
	"regexp"
	"strings"

	"corpkb/pkg/models"
)

// LineKind is the cue class that qualified a line, ordered by strength.
type LineKind int

const (
	LineNone LineKind = iota
	LineShortCity    // short line carrying only a city keyword
	LineStreetCity   // unit/street number plus street or city keyword
	LineLeadPhrase   // explicit address lead phrase
)

// Confidence per cue class.
func (k LineKind) Confidence() float64 {
	switch k {
	case LineLeadPhrase:
		return 0.9
	case LineStreetCity:
		return 0.7
	case LineShortCity:
		return 0.6
	default:
		return 0
	}
}

var leadPhrases = []string{
	"address at",
	"registered in",
	"located at",
	"registered office",
	"principal office",
	"principal executive",
}

var streetKeywords = []string{
	"street", " st.", "road", " rd.", "avenue", " ave", "boulevard", "blvd",
	"lane", "drive", "highway", "plaza", "square", "tower", "centre", "center",
	"district", "industrial park",
}

var cityKeywords = []string{
	"beijing", "shanghai", "shenzhen", "guangzhou", "hangzhou", "nanjing",
	"chengdu", "wuhan", "tianjin", "suzhou", "xiamen", "chongqing",
	"hong kong", "kowloon", "wan chai", "causeway bay", "macau",
	"singapore", "taipei",
	"grand cayman", "george town", "camana bay",
	"road town", "tortola",
	"hamilton", "bermuda",
	"new york", "wilmington", "delaware",
}

// Lines matching these are legal/procedural boilerplate and are never
// classified as addresses, digits or not.
var exclusionKeywords = []string{
	"agreement", "shareholder", "section", "article", "resolution",
	"meeting", "pursuant", "whereas", "hereby", "bylaw",
}

var (
	// "Unit 12", "Suite 4501", "Room 801", "No. 88", "18/F", leading street numbers.
	unitNumberRe = regexp.MustCompile(`(?i)\b(?:unit|suite|room|floor|flat|block|building|no\.?)\s*\d+|\b\d+/f\b|^\d{1,5}[-–]?\d*\s+\S`)
	// Bare building-number lead such as "88 Queensway".
	buildingNumberRe = regexp.MustCompile(`^\d{1,5}\s+[A-Z]`)
)

const shortLineMaxTokens = 6

// ClassifyLine decides whether a cleaned text line is part of a postal
// address and, if so, which cue class qualified it.
func ClassifyLine(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineNone
	}
	lower := strings.ToLower(trimmed)

	for _, kw := range exclusionKeywords {
		if strings.Contains(lower, kw) {
			return LineNone
		}
	}

	for _, p := range leadPhrases {
		if strings.Contains(lower, p) {
			return LineLeadPhrase
		}
	}
	if buildingNumberRe.MatchString(trimmed) {
		return LineLeadPhrase
	}

	if unitNumberRe.MatchString(trimmed) {
		if containsAny(lower, streetKeywords) || containsAny(lower, cityKeywords) {
			return LineStreetCity
		}
	}

	if len(strings.Fields(trimmed)) <= shortLineMaxTokens && containsAny(lower, cityKeywords) {
		return LineShortCity
	}

	return LineNone
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Block type cues in explicit priority order: a block matching several cues
// takes the most specific type listed first.
var blockTypeCues = []struct {
	Type string
	Cues []string
}{
	{models.AddrRegisteredOffice, []string{"registered office", "registered in"}},
	{models.AddrPrincipalOffice, []string{"principal office", "principal executive"}},
	{models.AddrAgent, []string{"c/o", "agent"}},
}

// ClassifyBlock assigns an address type to a completed block by scanning for
// type-indicating phrases.
func ClassifyBlock(text string) string {
	lower := strings.ToLower(text)
	for _, cue := range blockTypeCues {
		for _, phrase := range cue.Cues {
			if strings.Contains(lower, phrase) {
				return cue.Type
			}
		}
	}
	return models.AddrOther
}
