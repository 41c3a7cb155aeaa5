// Package identity derives the stable, deterministic identifiers that make
// cross-run deduplication and drift detection meaningful. Every function here
// is pure: the same inputs always produce the same identifier.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeSubsidiaryName collapses internal whitespace and trims the name.
// Legal-form suffixes (Inc., Ltd., GmbH, ...) are deliberately preserved
// verbatim: they disambiguate otherwise-identical short names.
func NormalizeSubsidiaryName(name string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
}

// SubsidiaryUUID computes the content-addressed identity key for a subsidiary
// as a name-based (v5) UUID over parent CIK, normalized name, and normalized
// jurisdiction. Two extractions of the same real-world subsidiary in the same
// jurisdiction collapse to the same key regardless of filing year.
func SubsidiaryUUID(parentCIK10, subNameNorm, jurisdictionNorm string) string {
	base := fmt.Sprintf("%s|%s|%s", parentCIK10, subNameNorm, jurisdictionNorm)
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(base)).String()
}

// AddressID computes the identity hash for an address row from the entity
// identifier and the raw address text. It is intentionally not
// normalization-aware: differently-formatted strings for the same physical
// address stay distinct rows for the QC layer to reconcile.
func AddressID(entityID, addressRaw string) string {
	sum := md5.Sum([]byte(entityID + "_" + addressRaw))
	return hex.EncodeToString(sum[:])
}

// Matches "84.32%", "51 percent", "55% owned" and similar.
var ownershipRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%|\b(\d+(?:\.\d+)?)\s*percent\b`)

// OwnershipPct extracts an ownership percentage from raw exhibit text.
// "Wholly"/"wholly-owned" with no numeric value means exactly 100.0. Text
// asserting nothing numeric returns nil, never zero.
func OwnershipPct(raw string) *float64 {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return nil
	}
	if m := ownershipRe.FindStringSubmatch(text); m != nil {
		num := m[1]
		if num == "" {
			num = m[2]
		}
		var v float64
		if _, err := fmt.Sscanf(num, "%f", &v); err == nil {
			return &v
		}
	}
	if strings.Contains(text, "wholly") {
		v := 100.0
		return &v
	}
	return nil
}
