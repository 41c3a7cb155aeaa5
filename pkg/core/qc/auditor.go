package qc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "qc")

// Thresholds shared by every run unless overridden on the Auditor.
const (
	DefaultMinParseConfidence = 0.60
	DefaultTargetMappingRate  = 0.95
)

// Offshore jurisdictions whose parents are expected to carry at least one
// address row.
var defaultOffshore = map[string]bool{
	"CYM": true,
	"HKG": true,
	"VGB": true,
	"BMU": true,
	"VIR": true,
	"SGP": true,
}

var cikRe = regexp.MustCompile(`^\d{10}$`)

// Defect is one coded finding with enough context to trace it back to a row.
type Defect struct {
	Timestamp string            `json:"timestamp"`
	Ticker    string            `json:"ticker"`
	CIK10     string            `json:"cik10"`
	Code      string            `json:"error_code"`
	Message   string            `json:"error_msg"`
	Context   map[string]string `json:"context"`
}

// Warning is an advisory finding that never affects the exit status.
type Warning struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// Stats is the run_summary.json payload.
type Stats struct {
	StartTime         string         `json:"start_time"`
	EndTime           string         `json:"end_time"`
	DurationSeconds   float64        `json:"duration_seconds"`
	RunDate           string         `json:"run_date"`
	ChecksPerformed   []string       `json:"checks_performed"`
	TotalParents      int            `json:"total_parents"`
	TotalSubsidiaries int            `json:"total_subsidiaries"`
	TotalAddresses    int            `json:"total_addresses"`
	ErrorsByCode      map[string]int `json:"errors_by_code"`
	TotalErrors       int            `json:"total_errors"`
	CriticalErrors    int            `json:"critical_errors"`
	WarningsCount     int            `json:"warnings_count"`
	MappingRate       float64        `json:"mapping_rate"`
	BytesProcessed    int64          `json:"total_bytes_processed"`
}

// Inputs are the artifacts under audit, already loaded by the caller.
// Mappings and ExhibitIndex are optional; the checks that need them are
// skipped when they are nil.
type Inputs struct {
	Parents        []models.ParentRecord
	Subsidiaries   []models.SubsidiaryRecord
	Addresses      []models.AddressRecord
	Mappings       []models.CIKMapping
	ExhibitIndex   []models.ExhibitRef
	BytesProcessed int64
}

// Result carries everything a run produced: the defect list, advisory
// warnings, and the summary statistics.
type Result struct {
	Defects  []Defect
	Warnings []Warning
	Stats    Stats
}

// CriticalCount is the number of defects with a critical code; it is the
// run's exit status.
func (r *Result) CriticalCount() int {
	n := 0
	for _, d := range r.Defects {
		if Critical(d.Code) {
			n++
		}
	}
	return n
}

// Passed reports whether the run is free of critical defects. Warnings and
// non-critical defects never fail a run.
func (r *Result) Passed() bool { return r.CriticalCount() == 0 }

// Auditor runs the checks. The zero value is not usable; call NewAuditor.
type Auditor struct {
	MinParseConfidence float64
	TargetMappingRate  float64
	Offshore           map[string]bool

	now func() time.Time
}

func NewAuditor() *Auditor {
	return &Auditor{
		MinParseConfidence: DefaultMinParseConfidence,
		TargetMappingRate:  DefaultTargetMappingRate,
		Offshore:           defaultOffshore,
		now:                time.Now,
	}
}

// Run executes every check unconditionally and returns the aggregated
// result. Checks never mutate the audited records.
func (a *Auditor) Run(in Inputs) *Result {
	start := a.now()
	r := &run{
		auditor: a,
		result: &Result{
			Stats: Stats{
				StartTime:      start.Format(time.RFC3339),
				RunDate:        start.Format("20060102"),
				ErrorsByCode:   map[string]int{},
				BytesProcessed: in.BytesProcessed,
			},
		},
	}

	r.checkParents(in.Parents)
	r.checkSubsidiaries(in.Subsidiaries)
	r.checkAddresses(in.Parents, in.Addresses)
	r.checkExhibitCoverage(in.Mappings, in.ExhibitIndex)
	r.checkMappingRate(in.Mappings)

	end := a.now()
	st := &r.result.Stats
	st.EndTime = end.Format(time.RFC3339)
	st.DurationSeconds = end.Sub(start).Seconds()
	st.TotalParents = len(in.Parents)
	st.TotalSubsidiaries = len(in.Subsidiaries)
	st.TotalAddresses = len(in.Addresses)
	st.TotalErrors = len(r.result.Defects)
	st.CriticalErrors = r.result.CriticalCount()
	st.WarningsCount = len(r.result.Warnings)

	log.WithFields(logrus.Fields{
		"defects":  st.TotalErrors,
		"critical": st.CriticalErrors,
		"warnings": st.WarningsCount,
	}).Info("audit complete")
	return r.result
}

// run holds per-invocation state so Auditor itself stays reusable.
type run struct {
	auditor *Auditor
	result  *Result
}

func (r *run) defect(ticker, cik10, code, msg string, ctx map[string]string) {
	if ctx == nil {
		ctx = map[string]string{}
	}
	r.result.Defects = append(r.result.Defects, Defect{
		Timestamp: r.auditor.now().Format(time.RFC3339),
		Ticker:    ticker,
		CIK10:     cik10,
		Code:      code,
		Message:   msg,
		Context:   ctx,
	})
	r.result.Stats.ErrorsByCode[code]++
}

func (r *run) warn(msg string) {
	r.result.Warnings = append(r.result.Warnings, Warning{
		Timestamp: r.auditor.now().Format(time.RFC3339),
		Message:   msg,
	})
}

func (r *run) performed(check string) {
	r.result.Stats.ChecksPerformed = append(r.result.Stats.ChecksPerformed, check)
}

// =============================================================================
// CHECKS
// =============================================================================

func (r *run) checkParents(parents []models.ParentRecord) {
	r.performed("parents_master")
	missingLegal := 0
	for _, p := range parents {
		// A pending parent has no filings to scrape from; the sentinel is
		// skipped here and surfaced through the mapping-rate warning.
		if p.ParentCIK10 == models.PendingCIK {
			continue
		}
		if p.IncorpCountryISO3 == "" {
			r.defect(p.ParentTicker, p.ParentCIK10, CodeMissingIncorpCountry,
				"Parent company missing incorporation country",
				map[string]string{"parent_name": p.ParentName})
		}
		if !cikRe.MatchString(p.ParentCIK10) {
			r.defect(p.ParentTicker, p.ParentCIK10, CodeInvalidCIK,
				fmt.Sprintf("Invalid CIK format: %s", p.ParentCIK10), nil)
		}
		if p.LegalForm == "" {
			missingLegal++
		}
	}
	if missingLegal > 0 {
		r.warn(fmt.Sprintf("%d parents missing legal form", missingLegal))
	}
}

func (r *run) checkSubsidiaries(subs []models.SubsidiaryRecord) {
	r.performed("subsidiaries_master")

	jurisByUUID := map[string][]string{}
	rowsByDedupKey := map[string][]models.SubsidiaryRecord{}
	firstRowByUUID := map[string]models.SubsidiaryRecord{}

	for _, s := range subs {
		if s.JurisdictionISO3 == "" {
			r.defect(s.ParentTicker, s.ParentCIK10, CodeMissingJurisdiction,
				fmt.Sprintf("Subsidiary %q missing jurisdiction", s.SubsidiaryName),
				map[string]string{"subsidiary_name": s.SubsidiaryName, "sub_uuid": s.SubUUID})
		}
		if s.ParseConfidence < r.auditor.MinParseConfidence {
			r.defect(s.ParentTicker, s.ParentCIK10, CodeLowParseConfidence,
				fmt.Sprintf("Parse confidence %.2f below threshold", s.ParseConfidence),
				map[string]string{"subsidiary_name": s.SubsidiaryName})
		}
		if s.JurisdictionISO3 != "" && !contains(jurisByUUID[s.SubUUID], s.JurisdictionISO3) {
			jurisByUUID[s.SubUUID] = append(jurisByUUID[s.SubUUID], s.JurisdictionISO3)
		}
		if _, ok := firstRowByUUID[s.SubUUID]; !ok {
			firstRowByUUID[s.SubUUID] = s
		}
		k := s.ParentCIK10 + "|" + s.SubUUID
		rowsByDedupKey[k] = append(rowsByDedupKey[k], s)
	}

	// Drift: one defect per identity key, naming every observed value. The
	// rows stay in the master table; drift is a signal, not a correction.
	driftKeys := make([]string, 0, len(jurisByUUID))
	for k := range jurisByUUID {
		driftKeys = append(driftKeys, k)
	}
	sort.Strings(driftKeys)
	for _, uuid := range driftKeys {
		values := jurisByUUID[uuid]
		if len(values) < 2 {
			continue
		}
		first := firstRowByUUID[uuid]
		r.defect(first.ParentTicker, first.ParentCIK10, CodeJurisdictionDrift,
			fmt.Sprintf("Subsidiary jurisdiction changed: [%s]", strings.Join(values, " ")),
			map[string]string{
				"subsidiary_name": first.SubsidiaryName,
				"sub_uuid":        uuid,
				"jurisdictions":   strings.Join(values, "|"),
			})
	}

	// Duplicates surviving dedup mean the merge step did not run or identity
	// derivation is unstable.
	dupKeys := make([]string, 0, len(rowsByDedupKey))
	for k := range rowsByDedupKey {
		dupKeys = append(dupKeys, k)
	}
	sort.Strings(dupKeys)
	for _, k := range dupKeys {
		rows := rowsByDedupKey[k]
		if len(rows) < 2 {
			continue
		}
		r.defect(rows[0].ParentTicker, rows[0].ParentCIK10, CodeDuplicateEntry,
			"Duplicate subsidiary entries found",
			map[string]string{
				"sub_uuid": rows[0].SubUUID,
				"count":    fmt.Sprintf("%d", len(rows)),
			})
	}
}

func (r *run) checkAddresses(parents []models.ParentRecord, addrs []models.AddressRecord) {
	r.performed("addresses_master")

	hasAddress := map[string]bool{}
	missingCountry := 0
	for _, a := range addrs {
		if a.EntityType == models.EntityParent && a.AddressRaw != "" {
			hasAddress[a.EntityID] = true
		}
		if a.AddressRaw != "" && a.CountryISO3 == "" {
			missingCountry++
		}
	}
	if missingCountry > 0 {
		r.warn(fmt.Sprintf("%d addresses missing parsed country", missingCountry))
	}

	for _, p := range parents {
		if !r.auditor.Offshore[p.IncorpCountryISO3] || hasAddress[p.ParentCIK10] {
			continue
		}
		r.defect(p.ParentTicker, p.ParentCIK10, CodeNoAddress,
			fmt.Sprintf("Offshore company (%s) missing address", p.IncorpCountryISO3),
			map[string]string{"parent_name": p.ParentName, "country": p.IncorpCountryISO3})
	}
}

// checkExhibitCoverage flags every resolved company with no subsidiary-list
// exhibit in the download index. Companies still pending resolution are not
// expected to have exhibits.
func (r *run) checkExhibitCoverage(mappings []models.CIKMapping, index []models.ExhibitRef) {
	if mappings == nil || index == nil {
		return
	}
	r.performed("exhibits_completeness")

	hasEX21 := map[string]bool{}
	for _, ref := range index {
		if ref.ExhibitType == models.ExhibitSubsidiaries || ref.ExhibitType == models.ExhibitSubsidiaries8 {
			hasEX21[ref.Ticker] = true
		}
	}
	for _, m := range mappings {
		if !m.Resolved() || hasEX21[m.Ticker] {
			continue
		}
		r.defect(m.Ticker, m.CIK10, CodeNoEX21Found, "No subsidiary-list exhibit found", nil)
	}
}

func (r *run) checkMappingRate(mappings []models.CIKMapping) {
	if len(mappings) == 0 {
		return
	}
	resolved := 0
	for _, m := range mappings {
		if m.Resolved() {
			resolved++
		}
	}
	rate := float64(resolved) / float64(len(mappings))
	r.result.Stats.MappingRate = rate
	if rate < r.auditor.TargetMappingRate {
		r.warn(fmt.Sprintf("Mapping rate %.1f%% below target %.0f%%",
			rate*100, r.auditor.TargetMappingRate*100))
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
