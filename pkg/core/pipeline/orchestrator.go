// Package pipeline wires the stages end to end: resolve, extract, merge,
// audit, report. Every stage reads and writes run-dated files through the
// artifacts codecs so any stage can be re-run from its inputs alone.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"corpkb/pkg/core/address"
	"corpkb/pkg/core/artifacts"
	"corpkb/pkg/core/config"
	"corpkb/pkg/core/exhibit"
	"corpkb/pkg/core/merge"
	"corpkb/pkg/core/norm"
	"corpkb/pkg/core/qc"
	"corpkb/pkg/core/resolve"
	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "pipeline")

// Orchestrator runs the batch pipeline for one dated run.
type Orchestrator struct {
	cfg        config.RunConfig
	normalizer *norm.Normalizer
	parser     *exhibit.Parser
	extractor  *address.Extractor
	auditor    *qc.Auditor
	now        func() time.Time
}

// NewOrchestrator builds the stage components from the run configuration.
// Override tables referenced by the config are loaded here so a bad table
// fails the run before any extraction starts.
func NewOrchestrator(cfg config.RunConfig) (*Orchestrator, error) {
	n := norm.NewNormalizer()
	if cfg.Paths.JurisdictionOverrides != "" {
		if err := n.LoadOverrides(cfg.Paths.JurisdictionOverrides); err != nil {
			return nil, fmt.Errorf("jurisdiction overrides: %w", err)
		}
	}

	parser := exhibit.NewParser()
	if cfg.Paths.ScoringOverrides != "" {
		table, err := exhibit.LoadScoringTable(cfg.Paths.ScoringOverrides)
		if err != nil {
			return nil, fmt.Errorf("scoring overrides: %w", err)
		}
		parser = exhibit.NewParserWithScoring(table)
	}

	auditor := qc.NewAuditor()
	auditor.MinParseConfidence = cfg.Thresholds.MinParseConfidence
	auditor.TargetMappingRate = cfg.Thresholds.TargetMappingRate
	auditor.Offshore = cfg.OffshoreSet()

	return &Orchestrator{
		cfg:        cfg,
		normalizer: n,
		parser:     parser,
		extractor:  address.NewExtractor(),
		auditor:    auditor,
		now:        time.Now,
	}, nil
}

// RunResult summarizes one pipeline execution.
type RunResult struct {
	RunDate string
	Audit   *qc.Result

	Parents      int
	Subsidiaries int
	Addresses    int
	ParseErrors  int
}

// Run executes the full pipeline. A returned error means a fatal
// precondition (unreadable mandatory input); QC findings are reported in
// the result, not as errors.
func (o *Orchestrator) Run() (*RunResult, error) {
	start := o.now()
	runDate := artifacts.RunDate(start)
	paths := o.cfg.Paths
	log.WithField("run_date", runDate).Info("pipeline start")

	if err := os.MkdirAll(paths.IntermediateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create intermediate dir: %w", err)
	}
	if err := os.MkdirAll(paths.CleanDir, 0o755); err != nil {
		return nil, fmt.Errorf("create clean dir: %w", err)
	}

	// Stage 1: resolve tickers. The roster and ticker table are the only
	// mandatory inputs; without them there is nothing to run.
	roster, err := artifacts.ReadRoster(paths.RosterCSV)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	table, err := resolve.LoadTickerTable(paths.TickerTable)
	if err != nil {
		return nil, fmt.Errorf("ticker table: %w", err)
	}
	resolved := resolve.Resolve(roster, table, start)
	cikMapPath := artifacts.DatedPath(paths.IntermediateDir, "cik_map", runDate, "csv")
	if err := artifacts.WriteCIKMap(cikMapPath, resolved.Mappings); err != nil {
		return nil, err
	}

	// Stage 2: extract subsidiary tables and charter addresses. A missing
	// exhibit index degrades to empty extractions; documents that fail to
	// parse are logged and carried into the error log.
	var index []models.ExhibitRef
	if _, statErr := os.Stat(paths.ExhibitIndex); statErr == nil {
		index, err = artifacts.ReadExhibitIndex(paths.ExhibitIndex)
		if err != nil {
			return nil, fmt.Errorf("exhibit index: %w", err)
		}
	} else {
		log.WithField("path", paths.ExhibitIndex).Warn("no exhibit index, skipping extraction")
	}

	subsBatch := o.parser.ExtractAll(index)
	rawSubsPath := artifacts.DatedPath(paths.IntermediateDir, "subs_ex21_raw", runDate, "csv")
	if err := artifacts.WriteRawSubsidiaries(rawSubsPath, subsBatch.Rows); err != nil {
		return nil, err
	}

	addrBatch := o.extractor.ExtractAll(index)
	rawAddrPath := artifacts.DatedPath(paths.IntermediateDir, "charter_addresses_raw", runDate, "csv")
	if err := artifacts.WriteRawAddresses(rawAddrPath, addrBatch.Rows); err != nil {
		return nil, err
	}

	// Stage 3: merge. DEI facts and submissions are optional sources; the
	// waterfall degrades past whichever is absent.
	sources := merge.Sources{
		DEIPath:        paths.DEIFactsCSV,
		CIKPath:        cikMapPath,
		SubmissionsDir: paths.SubmissionsDir,
		RosterPath:     paths.RosterCSV,
		ExhibitRows:    subsBatch.Rows,
	}
	if dei, deiErr := artifacts.ReadDEIFacts(paths.DEIFactsCSV); deiErr == nil {
		sources.DEI = dei
	} else {
		log.WithError(deiErr).Warn("DEI facts unavailable, waterfall degrades")
	}
	tickers := make([]string, 0, len(resolved.Mappings))
	for _, m := range resolved.Mappings {
		tickers = append(tickers, m.Ticker)
	}
	sources.Submissions = artifacts.ReadSubmissions(paths.SubmissionsDir, tickers)
	sources.Roster = map[string]string{}
	for _, r := range roster {
		sources.Roster[r.Ticker] = r.CompanyName
	}

	parents := merge.BuildParents(resolved.Mappings, sources, o.normalizer)
	subs := merge.BuildSubsidiaries(subsBatch.Rows, o.normalizer)
	addrs := merge.BuildAddresses(addrBatch.Rows, subs, o.normalizer)

	parentsPath := artifacts.DatedPath(paths.CleanDir, "parents_master", runDate, "csv")
	if err := artifacts.WriteParents(parentsPath, parents); err != nil {
		return nil, err
	}
	subsPath := artifacts.DatedPath(paths.CleanDir, "subs_master", runDate, "csv")
	if err := artifacts.WriteSubsidiaries(subsPath, subs); err != nil {
		return nil, err
	}
	addrsPath := artifacts.DatedPath(paths.CleanDir, "addresses_master", runDate, "csv")
	if err := artifacts.WriteAddresses(addrsPath, addrs); err != nil {
		return nil, err
	}

	// Stage 4: audit and report.
	audit := o.auditor.Run(qc.Inputs{
		Parents:        parents,
		Subsidiaries:   subs,
		Addresses:      addrs,
		Mappings:       resolved.Mappings,
		ExhibitIndex:   index,
		BytesProcessed: totalSize(cikMapPath, rawSubsPath, rawAddrPath, parentsPath, subsPath, addrsPath),
	})

	parseErrors := append(subsBatch.Errors, addrBatch.Errors...)
	reporter := qc.Reporter{LogsDir: paths.LogsDir}
	if err := reporter.WriteAll(audit, parseErrors); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"parents":      len(parents),
		"subsidiaries": len(subs),
		"addresses":    len(addrs),
		"critical":     audit.CriticalCount(),
		"elapsed":      o.now().Sub(start).String(),
	}).Info("pipeline complete")

	return &RunResult{
		RunDate:      runDate,
		Audit:        audit,
		Parents:      len(parents),
		Subsidiaries: len(subs),
		Addresses:    len(addrs),
		ParseErrors:  len(parseErrors),
	}, nil
}

func totalSize(paths ...string) int64 {
	var total int64
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil {
			total += fi.Size()
		}
	}
	return total
}
