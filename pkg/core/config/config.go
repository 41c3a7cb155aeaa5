// Package config holds the run configuration. Every input the pipeline
// consumes is an explicit path here; nothing inside the core globs for
// "the latest file" on its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	hjson "github.com/hjson/hjson-go/v4"
)

// Paths enumerates the artifact locations for one run.
type Paths struct {
	RosterCSV      string `json:"roster_csv"`
	TickerTable    string `json:"ticker_table"`
	DEIFactsCSV    string `json:"dei_facts_csv"`
	SubmissionsDir string `json:"submissions_dir"`
	ExhibitIndex   string `json:"exhibit_index"`

	IntermediateDir string `json:"intermediate_dir"`
	CleanDir        string `json:"clean_dir"`
	LogsDir         string `json:"logs_dir"`

	// Optional override tables; blank means built-in defaults.
	JurisdictionOverrides string `json:"jurisdiction_overrides"`
	ScoringOverrides      string `json:"scoring_overrides"`
}

// Thresholds are the QC gates.
type Thresholds struct {
	MinParseConfidence float64 `json:"min_parse_confidence"`
	TargetMappingRate  float64 `json:"target_mapping_rate"`
}

// RunConfig is the full pipeline configuration. Load layers an hjson file
// over Default, so config files only state what they change.
type RunConfig struct {
	Paths      Paths      `json:"paths"`
	Thresholds Thresholds `json:"thresholds"`
	Offshore   []string   `json:"offshore_jurisdictions"`
}

func Default() RunConfig {
	return RunConfig{
		Paths: Paths{
			RosterCSV:       filepath.Join("data", "raw", "USCC", "chinese_companies_USA.csv"),
			TickerTable:     filepath.Join("data", "raw", "EDGAR", "company_tickers.json"),
			DEIFactsCSV:     filepath.Join("data", "intermediate", "dei_facts.csv"),
			SubmissionsDir:  filepath.Join("data", "raw", "EDGAR"),
			ExhibitIndex:    filepath.Join("data", "intermediate", "exhibits_index.json"),
			IntermediateDir: filepath.Join("data", "intermediate"),
			CleanDir:        filepath.Join("data", "clean"),
			LogsDir:         "logs",
		},
		Thresholds: Thresholds{
			MinParseConfidence: 0.60,
			TargetMappingRate:  0.95,
		},
		Offshore: []string{"CYM", "HKG", "VGB", "BMU", "VIR", "SGP"},
	}
}

// Load reads an hjson config file over the defaults. A blank path returns
// the defaults unchanged.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := hjson.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// OffshoreSet returns the offshore jurisdiction list as a lookup set.
func (c RunConfig) OffshoreSet() map[string]bool {
	set := make(map[string]bool, len(c.Offshore))
	for _, code := range c.Offshore {
		set[code] = true
	}
	return set
}
