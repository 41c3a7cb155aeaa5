package merge

import (
	"reflect"
	"testing"

	"corpkb/pkg/core/norm"
	"corpkb/pkg/models"
)

func testSources() Sources {
	return Sources{
		DEI: map[string]models.DEIFacts{
			"BABA": {
				Ticker:           "BABA",
				RegistrantName:   "Alibaba Group Holding Limited",
				IncorpCountryRaw: "E9",
				IncorpStateRaw:   "",
				LegalForm:        "Limited",
			},
			"NIO": {Ticker: "NIO"},
		},
		DEIPath: "data/intermediate/dei_facts_20260830.csv",
		CIKPath: "data/intermediate/cik_map_20260830.csv",
		Submissions: map[string]models.SubmissionMeta{
			"BABA": {Name: "Alibaba Group Holding Ltd", StateOfIncorporationDesc: "Cayman Islands"},
			"NIO":  {Name: "NIO Inc."},
		},
		SubmissionsDir: "data/raw/EDGAR",
		Roster: map[string]string{
			"BABA": "Alibaba Group",
			"EDU":  "New Oriental Education",
		},
		RosterPath: "data/raw/roster/20260830_companies.csv",
		ExhibitRows: []models.RawSubsidiaryRow{
			{ParentTicker: "BABA", ParentCIK10: "0001577552", Accession: "0001577552-24-000096", ExhibitYear: 2024, SourcePath: "a/2024.htm"},
			{ParentTicker: "BABA", ParentCIK10: "0001577552", Accession: "0001577552-25-000101", ExhibitYear: 2025, SourcePath: "a/2025.htm"},
		},
	}
}

func mapping(ticker, cik string) models.CIKMapping {
	source := models.MappingSourceOfficial
	if cik == models.PendingCIK {
		source = models.MappingSourceNotFound
	}
	return models.CIKMapping{Ticker: ticker, CIK10: cik, MappingSource: source}
}

func TestBuildParentNameWaterfall(t *testing.T) {
	n := norm.NewNormalizer()
	src := testSources()

	tests := []struct {
		name        string
		mapping     models.CIKMapping
		wantName    string
		wantSources []string
	}{
		{
			name:        "DEI name wins",
			mapping:     mapping("BABA", "0001577552"),
			wantName:    "Alibaba Group Holding Limited",
			wantSources: []string{models.SourceDEI, models.SourceCIK, models.SourceSubmissions, models.SourceEX21},
		},
		{
			name:        "Falls back to submissions when DEI name blank",
			mapping:     mapping("NIO", "0001736541"),
			wantName:    "NIO Inc.",
			wantSources: []string{models.SourceSubmissions, models.SourceDEI, models.SourceCIK},
		},
		{
			name:        "Falls back to roster when neither has a name",
			mapping:     mapping("EDU", "0001372920"),
			wantName:    "New Oriental Education",
			wantSources: []string{models.SourceUSCC, models.SourceDEI, models.SourceCIK},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildParent(tt.mapping, src, n)
			if got.ParentName != tt.wantName {
				t.Errorf("name = %q, want %q", got.ParentName, tt.wantName)
			}
			if !reflect.DeepEqual(got.SourcesUsed, tt.wantSources) {
				t.Errorf("sources_used = %v, want %v", got.SourcesUsed, tt.wantSources)
			}
			for _, tag := range got.SourcesUsed {
				if got.Lineage[tag] == "" {
					t.Errorf("source %s has no lineage locator", tag)
				}
			}
		})
	}
}

func TestBuildParentPendingCIKNotCredited(t *testing.T) {
	got := buildParent(mapping("EDU", models.PendingCIK), testSources(), norm.NewNormalizer())
	for _, s := range got.SourcesUsed {
		if s == models.SourceCIK {
			t.Fatalf("PENDING mapping must not credit the CIK map, got %v", got.SourcesUsed)
		}
	}
}

func TestBuildParentStateFallsBackToSubmissions(t *testing.T) {
	got := buildParent(mapping("BABA", "0001577552"), testSources(), norm.NewNormalizer())
	if got.IncorpStateOrRegion != "Cayman Islands" {
		t.Errorf("state = %q, want submissions fallback", got.IncorpStateOrRegion)
	}
	if got.Lineage[models.SourceSubmissions] == "" {
		t.Error("submissions fallback not recorded in lineage")
	}
}

func TestBuildParentCountryFromDEICode(t *testing.T) {
	got := buildParent(mapping("BABA", "0001577552"), testSources(), norm.NewNormalizer())
	if got.IncorpCountry != "Cayman Islands" || got.IncorpCountryISO3 != "CYM" {
		t.Errorf("country = %q/%q, want Cayman Islands/CYM", got.IncorpCountry, got.IncorpCountryISO3)
	}
}

func TestBuildParentLatestExhibitRow(t *testing.T) {
	got := buildParent(mapping("BABA", "0001577552"), testSources(), norm.NewNormalizer())
	if got.LatestFilingYear != 2025 {
		t.Errorf("latest filing year = %d, want 2025", got.LatestFilingYear)
	}
	if got.LatestFilingAccn != "0001577552-25-000101" {
		t.Errorf("latest accession = %q", got.LatestFilingAccn)
	}
	if got.Lineage[models.SourceEX21] != "a/2025.htm" {
		t.Errorf("EX-21 lineage = %q, want the max-year source path", got.Lineage[models.SourceEX21])
	}
}

func TestBuildParentNeverEmptyProvenance(t *testing.T) {
	src := Sources{DEIPath: "data/intermediate/dei_facts_20260830.csv"}
	got := buildParent(models.CIKMapping{CIK10: models.PendingCIK}, src, norm.NewNormalizer())
	if !reflect.DeepEqual(got.SourcesUsed, []string{models.SourceDEI}) {
		t.Errorf("sources_used = %v, want default primary tag", got.SourcesUsed)
	}
}

func TestBuildParentsMissingOptionalSourcesDegrade(t *testing.T) {
	// Only the roster is available; the waterfall skips the missing maps
	// without error.
	src := Sources{
		Roster:     map[string]string{"EDU": "New Oriental Education"},
		RosterPath: "roster.csv",
		DEIPath:    "dei.csv",
	}
	parents := BuildParents([]models.CIKMapping{mapping("EDU", "0001372920")}, src, norm.NewNormalizer())
	if len(parents) != 1 {
		t.Fatalf("got %d parents, want 1", len(parents))
	}
	if parents[0].ParentName != "New Oriental Education" {
		t.Errorf("name = %q, want roster fallback", parents[0].ParentName)
	}
}
