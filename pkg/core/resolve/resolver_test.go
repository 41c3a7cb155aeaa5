package resolve

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"corpkb/pkg/models"
)

var testTable = map[string]string{
	"BABA": "0001577552",
	"JD":   "0001549802",
	"NIO":  "0001736541",
}

func TestResolveMapped(t *testing.T) {
	roster := []models.RosterRow{
		{Ticker: "baba", CompanyName: "Alibaba Group Holding Limited"},
		{Ticker: "JD", CompanyName: "JD.com, Inc."},
	}

	res := Resolve(roster, testTable, time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC))

	if len(res.Mappings) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(res.Mappings))
	}
	if len(res.Missing) != 0 {
		t.Fatalf("expected no missing tickers, got %v", res.Missing)
	}

	first := res.Mappings[0]
	if first.Ticker != "BABA" {
		t.Errorf("ticker should be uppercased, got %q", first.Ticker)
	}
	if first.CIK10 != "0001577552" {
		t.Errorf("wrong CIK: %q", first.CIK10)
	}
	if first.MappingSource != models.MappingSourceOfficial {
		t.Errorf("wrong mapping source: %q", first.MappingSource)
	}
	if first.ResolvedAt != "2025-10-08T12:00:00Z" {
		t.Errorf("wrong resolved_at: %q", first.ResolvedAt)
	}
}

func TestResolveUnmappedGetsSentinel(t *testing.T) {
	roster := []models.RosterRow{
		{Ticker: "NIO", CompanyName: "NIO Inc."},
		{Ticker: "NOPE", CompanyName: "Delisted Holdings"},
	}

	res := Resolve(roster, testTable, time.Now())

	if len(res.Mappings) != 2 {
		t.Fatalf("unmapped tickers must not be dropped: got %d rows", len(res.Mappings))
	}

	missing := res.Mappings[1]
	if missing.CIK10 != models.PendingCIK {
		t.Errorf("expected PENDING sentinel, got %q", missing.CIK10)
	}
	if missing.MappingSource != models.MappingSourceNotFound {
		t.Errorf("expected not_found source, got %q", missing.MappingSource)
	}
	if missing.Resolved() {
		t.Error("sentinel row must not report as resolved")
	}
	if len(res.Missing) != 1 || res.Missing[0] != "NOPE" {
		t.Errorf("missing list wrong: %v", res.Missing)
	}
}

func TestMappingRate(t *testing.T) {
	roster := []models.RosterRow{
		{Ticker: "BABA"}, {Ticker: "JD"}, {Ticker: "NIO"}, {Ticker: "GONE"},
	}
	res := Resolve(roster, testTable, time.Now())
	if got := res.MappingRate(); got != 0.75 {
		t.Errorf("mapping rate = %v, want 0.75", got)
	}
}

func TestLoadTickerTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sec_tickers.json")
	data := `{"0":{"cik_str":1577552,"ticker":"BABA","title":"Alibaba Group Holding Limited"},
	          "1":{"cik_str":320193,"ticker":"aapl","title":"Apple Inc."}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTickerTable(path)
	if err != nil {
		t.Fatalf("LoadTickerTable: %v", err)
	}
	if table["BABA"] != "0001577552" {
		t.Errorf("CIK not zero-padded: %q", table["BABA"])
	}
	if table["AAPL"] != "0000320193" {
		t.Errorf("ticker not uppercased on load: %v", table)
	}
}

func TestLoadTickerTableMissingIsFatal(t *testing.T) {
	if _, err := LoadTickerTable(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing lookup table")
	}
}
