package qc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"corpkb/pkg/models"
)

// Reporter writes the audit outputs into a logs directory: the append-only
// errors.jsonl, a run-dated copy of it, run_summary.json, and the rendered
// qc_report_<date>.html.
type Reporter struct {
	LogsDir string
}

// WriteAll persists every report artifact. The parse errors collected by the
// extraction stages ride along in the same JSONL stream so one file holds
// the full failure record of a run.
func (rep Reporter) WriteAll(r *Result, parseErrors []models.ParseError) error {
	if err := os.MkdirAll(rep.LogsDir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	if err := rep.writeErrorLogs(r, parseErrors); err != nil {
		return err
	}
	if err := rep.writeSummary(r); err != nil {
		return err
	}
	return rep.writeHTML(r)
}

func (rep Reporter) writeErrorLogs(r *Result, parseErrors []models.ParseError) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range r.Defects {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode defect: %w", err)
		}
	}
	for _, pe := range parseErrors {
		if err := enc.Encode(pe); err != nil {
			return fmt.Errorf("encode parse error: %w", err)
		}
	}

	// errors.jsonl accumulates across runs; the dated copy is this run only.
	appendPath := filepath.Join(rep.LogsDir, "errors.jsonl")
	f, err := os.OpenFile(appendPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", appendPath, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", appendPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", appendPath, err)
	}

	datedPath := filepath.Join(rep.LogsDir, fmt.Sprintf("errors_%s.jsonl", r.Stats.RunDate))
	if err := os.WriteFile(datedPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", datedPath, err)
	}
	return nil
}

func (rep Reporter) writeSummary(r *Result) error {
	data, err := json.MarshalIndent(r.Stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	path := filepath.Join(rep.LogsDir, "run_summary.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (rep Reporter) writeHTML(r *Result) error {
	md := RenderMarkdown(r)

	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&page, "<title>Pipeline QC Report - %s</title>\n", r.Stats.RunDate)
	page.WriteString("<style>\nbody { font-family: Arial, sans-serif; margin: 20px; max-width: 960px; }\ntable { border-collapse: collapse; }\nth, td { padding: 8px 12px; border-bottom: 1px solid #ecf0f1; text-align: left; }\nth { background: #ecf0f1; }\n</style>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	path := filepath.Join(rep.LogsDir, fmt.Sprintf("qc_report_%s.html", r.Stats.RunDate))
	if err := os.WriteFile(path, page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown builds the report body as GFM markdown. Split out from the
// HTML writer so tests can assert on content without parsing HTML.
func RenderMarkdown(r *Result) string {
	var b strings.Builder
	st := r.Stats

	fmt.Fprintf(&b, "# Pipeline Quality Control Report\n\n")
	fmt.Fprintf(&b, "Run date: %s\n\n", st.RunDate)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Parent companies | %d |\n", st.TotalParents)
	fmt.Fprintf(&b, "| Subsidiaries | %d |\n", st.TotalSubsidiaries)
	fmt.Fprintf(&b, "| Addresses | %d |\n", st.TotalAddresses)
	fmt.Fprintf(&b, "| Total defects | %d |\n", st.TotalErrors)
	fmt.Fprintf(&b, "| Critical defects | %d |\n", st.CriticalErrors)
	fmt.Fprintf(&b, "| Warnings | %d |\n", st.WarningsCount)
	if st.MappingRate > 0 {
		fmt.Fprintf(&b, "| Mapping rate | %.1f%% |\n", st.MappingRate*100)
	}
	b.WriteString("\n")

	if len(st.ErrorsByCode) > 0 {
		b.WriteString("## Defects by category\n\n")
		b.WriteString("| Code | Description | Count |\n|---|---|---|\n")
		codes := make([]string, 0, len(st.ErrorsByCode))
		for code := range st.ErrorsByCode {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool {
			if st.ErrorsByCode[codes[i]] != st.ErrorsByCode[codes[j]] {
				return st.ErrorsByCode[codes[i]] > st.ErrorsByCode[codes[j]]
			}
			return codes[i] < codes[j]
		})
		for _, code := range codes {
			marker := ""
			if Critical(code) {
				marker = " (critical)"
			}
			fmt.Fprintf(&b, "| %s%s | %s | %d |\n", code, marker, Describe(code), st.ErrorsByCode[code])
		}
		b.WriteString("\n")
	}

	if len(r.Defects) > 0 {
		b.WriteString("## Sample defects\n\n")
		limit := len(r.Defects)
		if limit > 10 {
			limit = 10
		}
		for _, d := range r.Defects[:limit] {
			fmt.Fprintf(&b, "- **%s** (%s) %s: %s\n", d.Ticker, d.CIK10, d.Code, d.Message)
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w.Message)
		}
		b.WriteString("\n")
	}

	if r.Passed() {
		b.WriteString("**PASS**: no critical defects found.\n")
	} else {
		fmt.Fprintf(&b, "**FAIL**: %d critical defects found.\n", st.CriticalErrors)
	}
	return b.String()
}
