package merge

import (
	"testing"

	"corpkb/pkg/core/norm"
	"corpkb/pkg/models"
)

func rawSub(name, juris, owner string, year int, accn string) models.RawSubsidiaryRow {
	return models.RawSubsidiaryRow{
		ParentTicker:      "BABA",
		ParentCIK10:       "0001577552",
		Accession:         accn,
		ExhibitLabel:      "EX-21.1",
		ExhibitYear:       year,
		SubsidiaryNameRaw: name,
		JurisdictionRaw:   juris,
		OwnershipRaw:      owner,
		SourcePath:        accn + ".htm",
		ParseConfidence:   1.0,
	}
}

func TestBuildSubsidiariesDedupFoldsYears(t *testing.T) {
	rows := []models.RawSubsidiaryRow{
		rawSub("Taobao  Holding Limited", "Cayman Islands", "", 2023, "accn-23"),
		rawSub("Taobao Holding Limited", "Cayman", "wholly-owned", 2024, "accn-24"),
	}
	rows[0].ParseConfidence = 0.8

	subs := BuildSubsidiaries(rows, norm.NewNormalizer())
	if len(subs) != 1 {
		t.Fatalf("got %d records, want the two sightings folded into 1", len(subs))
	}
	s := subs[0]
	if s.FirstSeenYear != 2023 || s.LastSeenYear != 2024 {
		t.Errorf("seen years = %d..%d, want 2023..2024", s.FirstSeenYear, s.LastSeenYear)
	}
	if s.Accession != "accn-24" || s.Lineage != "accn-24.htm" {
		t.Errorf("accession/lineage = %q/%q, want the latest-year occurrence", s.Accession, s.Lineage)
	}
	if s.ParseConfidence != 0.8 {
		t.Errorf("confidence = %v, want the weakest folded score", s.ParseConfidence)
	}
	if s.OwnershipPct == nil || *s.OwnershipPct != 100.0 {
		t.Errorf("ownership = %v, want 100.0 from wholly-owned", s.OwnershipPct)
	}
	if s.JurisdictionNorm != "Cayman Islands" || s.JurisdictionISO3 != "CYM" {
		t.Errorf("jurisdiction = %q/%q", s.JurisdictionNorm, s.JurisdictionISO3)
	}
}

func TestBuildSubsidiariesJurisdictionDistinguishes(t *testing.T) {
	rows := []models.RawSubsidiaryRow{
		rawSub("Taobao China Software Co., Ltd.", "PRC", "", 2024, "a"),
		rawSub("Taobao China Software Co., Ltd.", "Hong Kong", "", 2024, "a"),
	}
	subs := BuildSubsidiaries(rows, norm.NewNormalizer())
	if len(subs) != 2 {
		t.Fatalf("got %d records, want 2: same name in different jurisdictions is two entities", len(subs))
	}
	if subs[0].SubUUID == subs[1].SubUUID {
		t.Error("identity keys collide across jurisdictions")
	}
}

func TestBuildSubsidiariesDropsBlankNames(t *testing.T) {
	rows := []models.RawSubsidiaryRow{rawSub("   ", "China", "", 2024, "a")}
	if subs := BuildSubsidiaries(rows, norm.NewNormalizer()); len(subs) != 0 {
		t.Fatalf("got %d records, want blank name dropped", len(subs))
	}
}

func TestBuildSubsidiariesUnmappedJurisdictionKept(t *testing.T) {
	rows := []models.RawSubsidiaryRow{rawSub("Ant Sub Ltd.", "Ruritania", "", 2024, "a")}
	subs := BuildSubsidiaries(rows, norm.NewNormalizer())
	if len(subs) != 1 {
		t.Fatalf("got %d records, want 1", len(subs))
	}
	if subs[0].JurisdictionNorm != "Ruritania" || subs[0].JurisdictionISO3 != "" {
		t.Errorf("unmapped jurisdiction = %q/%q, want passthrough with empty ISO3",
			subs[0].JurisdictionNorm, subs[0].JurisdictionISO3)
	}
}

func TestBuildAddressesParentsAndPlaceholders(t *testing.T) {
	n := norm.NewNormalizer()
	raw := []models.RawAddressRow{
		{
			ParentTicker:    "BABA",
			ParentCIK10:     "0001577552",
			Accession:       "accn-24",
			AddressRaw:      "190 Elgin Avenue, George Town, Cayman Islands",
			AddressType:     models.AddrRegisteredOffice,
			ParseConfidence: 0.9,
		},
		{
			// Same text again from a later document: one row survives.
			ParentTicker: "BABA",
			ParentCIK10:  "0001577552",
			Accession:    "accn-25",
			AddressRaw:   "190 Elgin Avenue, George Town, Cayman Islands",
			AddressType:  models.AddrRegisteredOffice,
		},
	}
	subs := BuildSubsidiaries([]models.RawSubsidiaryRow{
		rawSub("Taobao Holding Limited", "Cayman Islands", "", 2024, "accn-24"),
	}, n)

	addrs := BuildAddresses(raw, subs, n)
	if len(addrs) != 2 {
		t.Fatalf("got %d rows, want 1 parent address + 1 subsidiary placeholder", len(addrs))
	}

	parent := addrs[0]
	if parent.EntityType != models.EntityParent || parent.EntityID != "0001577552" {
		t.Errorf("parent row = %s/%s", parent.EntityType, parent.EntityID)
	}
	if parent.CountryISO3 != "CYM" || parent.Locality != "George Town" {
		t.Errorf("decomposition = %+v", parent)
	}
	if parent.AddrID == "" {
		t.Error("parent row missing addr_id")
	}

	placeholder := addrs[1]
	if placeholder.EntityType != models.EntitySubsidiary || placeholder.EntityID != subs[0].SubUUID {
		t.Errorf("placeholder row = %s/%s", placeholder.EntityType, placeholder.EntityID)
	}
	if placeholder.AddressRaw != "" {
		t.Errorf("placeholder address = %q, want empty", placeholder.AddressRaw)
	}
}
