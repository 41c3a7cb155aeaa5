package qc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"corpkb/pkg/models"
)

func TestReporterWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := NewAuditor().Run(Inputs{Parents: []models.ParentRecord{
		{ParentTicker: "EDU", ParentCIK10: "0001372920"},
	}})

	rep := Reporter{LogsDir: dir}
	parseErrs := []models.ParseError{{ParentTicker: "NIO", Error: "no table found"}}
	if err := rep.WriteAll(r, parseErrs); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range []string{
		"errors.jsonl",
		"errors_" + r.Stats.RunDate + ".jsonl",
		"run_summary.json",
		"qc_report_" + r.Stats.RunDate + ".html",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	jsonl, err := os.ReadFile(filepath.Join(dir, "errors.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(jsonl)), "\n")
	if len(lines) != 2 {
		t.Errorf("errors.jsonl has %d lines, want defect + parse error", len(lines))
	}

	// A second run appends to errors.jsonl but replaces the dated copy.
	if err := rep.WriteAll(r, nil); err != nil {
		t.Fatalf("WriteAll second run: %v", err)
	}
	jsonl, _ = os.ReadFile(filepath.Join(dir, "errors.jsonl"))
	if got := len(strings.Split(strings.TrimSpace(string(jsonl)), "\n")); got != 3 {
		t.Errorf("errors.jsonl has %d lines after second run, want 3", got)
	}

	html, err := os.ReadFile(filepath.Join(dir, "qc_report_"+r.Stats.RunDate+".html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), CodeMissingIncorpCountry) {
		t.Error("HTML report does not mention the defect code")
	}
}

func TestRenderMarkdownGating(t *testing.T) {
	pass := NewAuditor().Run(Inputs{Parents: []models.ParentRecord{
		{ParentTicker: "BABA", ParentCIK10: "0001577552", IncorpCountryISO3: "CHN", LegalForm: "Limited"},
	}})
	if md := RenderMarkdown(pass); !strings.Contains(md, "PASS") {
		t.Errorf("pass report missing PASS marker:\n%s", md)
	}

	fail := NewAuditor().Run(Inputs{Parents: []models.ParentRecord{
		{ParentTicker: "EDU", ParentCIK10: "0001372920"},
	}})
	md := RenderMarkdown(fail)
	if !strings.Contains(md, "FAIL") {
		t.Errorf("fail report missing FAIL marker:\n%s", md)
	}
	if !strings.Contains(md, "(critical)") {
		t.Errorf("fail report does not mark the critical code:\n%s", md)
	}
}
