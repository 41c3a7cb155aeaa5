// Package resolve maps roster tickers to their SEC CIK identifiers using the
// cached company-ticker lookup table. Unmapped tickers receive a sentinel
// rather than being dropped; downstream stages skip the sentinel.
package resolve

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "resolve")

// tickerEntry is one record in the SEC company_tickers.json table. The file
// is a JSON object keyed by row index: {"0": {"cik_str": 320193, ...}, ...}.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// LoadTickerTable reads the cached SEC ticker lookup file and returns an
// uppercase-ticker -> zero-padded 10-digit CIK map. A missing or unreadable
// table is fatal for the run: there is no fallback source of identifiers.
func LoadTickerTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ticker lookup table unavailable: %w", err)
	}

	var entries map[string]tickerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ticker lookup table %s malformed: %w", path, err)
	}

	table := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Ticker == "" {
			continue
		}
		table[strings.ToUpper(e.Ticker)] = fmt.Sprintf("%010d", e.CIK)
	}
	return table, nil
}

// Result holds the resolver output for one roster.
type Result struct {
	Mappings []models.CIKMapping
	Missing  []string // tickers absent from the lookup table
}

// MappingRate is the fraction of tickers resolved to a real CIK.
func (r Result) MappingRate() float64 {
	if len(r.Mappings) == 0 {
		return 0
	}
	resolved := 0
	for _, m := range r.Mappings {
		if m.Resolved() {
			resolved++
		}
	}
	return float64(resolved) / float64(len(r.Mappings))
}

// Resolve maps every roster ticker through the lookup table. An unmapped
// ticker is a statistic, not an error: it gets the PENDING sentinel and
// appears in Missing. Output order follows the roster.
func Resolve(roster []models.RosterRow, table map[string]string, now time.Time) Result {
	resolvedAt := now.UTC().Format(time.RFC3339)

	var res Result
	for _, row := range roster {
		ticker := strings.ToUpper(strings.TrimSpace(row.Ticker))
		if ticker == "" {
			continue
		}

		m := models.CIKMapping{
			Ticker:      ticker,
			CompanyName: row.CompanyName,
			ResolvedAt:  resolvedAt,
		}
		if cik, ok := table[ticker]; ok {
			m.CIK10 = cik
			m.MappingSource = models.MappingSourceOfficial
		} else {
			m.CIK10 = models.PendingCIK
			m.MappingSource = models.MappingSourceNotFound
			res.Missing = append(res.Missing, ticker)
		}
		res.Mappings = append(res.Mappings, m)
	}

	if len(res.Missing) > 0 {
		log.WithField("tickers", res.Missing).Warn("tickers not found in SEC lookup table")
	}
	log.WithFields(logrus.Fields{
		"total":        len(res.Mappings),
		"mapping_rate": fmt.Sprintf("%.1f%%", res.MappingRate()*100),
	}).Info("ticker resolution complete")

	return res
}
