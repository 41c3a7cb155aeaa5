package address

import (
	"strings"
	"testing"

	"corpkb/pkg/models"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{"Lead phrase", "with its registered office located at the address below", LineLeadPhrase},
		{"Registered in", "The Company is registered in the Cayman Islands", LineLeadPhrase},
		{"Building number lead", "88 Queensway Admiralty", LineLeadPhrase},
		{"Unit with city", "Unit 12, 88 Queensway, Hong Kong", LineStreetCity},
		{"Suite with street", "Suite 4501, Two International Finance Centre", LineStreetCity},
		{"Short city line", "George Town, Grand Cayman", LineShortCity},
		{"Short city line CN", "Pudong District, Shanghai", LineShortCity},
		{"Plain prose", "The directors may exercise all such powers", LineNone},
		{"Empty", "   ", LineNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLine(tt.line); got != tt.want {
				t.Errorf("ClassifyLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

// Boilerplate legal text must never classify as an address, even when it
// carries digits or otherwise-matching tokens.
func TestClassifyLineExclusions(t *testing.T) {
	lines := []string{
		"Agreement Section 4.2, the Company shall...",
		"Unit 12 of the Shareholder Agreement, Hong Kong practice",
		"pursuant to Article 5, No. 10 applies",
	}
	for _, line := range lines {
		if got := ClassifyLine(line); got != LineNone {
			t.Errorf("ClassifyLine(%q) = %v, want LineNone", line, got)
		}
	}
}

func TestClassifyBlockPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Registered office", "the registered office of the Company is at Cricket Square", models.AddrRegisteredOffice},
		{"Principal executive", "principal executive offices located at 88 Keyuan Road", models.AddrPrincipalOffice},
		{"Agent", "c/o Maples Corporate Services Limited", models.AddrAgent},
		{"Overlapping cues take the most specific", "registered office c/o Maples Corporate Services", models.AddrRegisteredOffice},
		{"No cue", "12 Science Park East Avenue", models.AddrOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBlock(tt.text); got != tt.want {
				t.Errorf("ClassifyBlock(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractBlocks(t *testing.T) {
	lines := []string{
		"ARTICLES OF ASSOCIATION",
		"The registered office of the Company is located at",
		"190 Elgin Avenue, George Town",
		"Grand Cayman KY1-9008, Cayman Islands",
		"The directors may exercise all such powers of the Company",
		"Unit 12, 88 Queensway, Hong Kong",
	}

	blocks := ExtractBlocks(lines)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}

	first := blocks[0]
	if !strings.Contains(first.Raw, "190 Elgin Avenue") || !strings.Contains(first.Raw, "Cayman Islands") {
		t.Errorf("consecutive address lines not concatenated: %q", first.Raw)
	}
	if first.Type != models.AddrRegisteredOffice {
		t.Errorf("block type = %q, want registered_office", first.Type)
	}
	if first.Confidence != 0.9 {
		t.Errorf("lead-phrase block confidence = %v, want 0.9", first.Confidence)
	}

	second := blocks[1]
	if second.Raw != "Unit 12, 88 Queensway, Hong Kong" {
		t.Errorf("second block = %q", second.Raw)
	}
	if second.Type != models.AddrOther {
		t.Errorf("second block type = %q, want other", second.Type)
	}
	if second.Confidence != 0.7 {
		t.Errorf("street/city block confidence = %v, want 0.7", second.Confidence)
	}
}

func TestDedupAcrossDocuments(t *testing.T) {
	seen := make(map[string]bool)

	doc1 := Dedup([]Block{
		{Raw: "Cricket Square, Hutchins Drive, George Town"},
		{Raw: "Unit 12, 88 Queensway, Hong Kong"},
	}, seen)
	if len(doc1) != 2 {
		t.Fatalf("first document should keep both blocks, got %d", len(doc1))
	}

	// Same address, different punctuation and case: collapsed.
	doc2 := Dedup([]Block{
		{Raw: "CRICKET SQUARE HUTCHINS DRIVE GEORGE TOWN"},
		{Raw: "3rd Floor, Citic Tower, Beijing"},
	}, seen)
	if len(doc2) != 1 || doc2[0].Raw != "3rd Floor, Citic Tower, Beijing" {
		t.Errorf("dedup across documents failed: %+v", doc2)
	}
}
