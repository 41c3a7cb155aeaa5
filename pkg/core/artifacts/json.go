package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/sirupsen/logrus"

	"corpkb/pkg/models"
)

var log = logrus.WithField("component", "artifacts")

// ReadExhibitIndex loads the downloader's exhibit index JSON array.
func ReadExhibitIndex(path string) ([]models.ExhibitRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exhibit index %s: %w", path, err)
	}
	var index []models.ExhibitRef
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse exhibit index %s: %w", path, err)
	}
	return index, nil
}

// ReadSubmissions loads per-ticker submission metadata from
// <dir>/<ticker>/submissions.json. Files are collaborator-written and
// occasionally truncated mid-download, so an unmarshal failure retries
// through json-repair before the file is skipped. Missing or unrecoverable
// files degrade to an absent entry, never an error.
func ReadSubmissions(dir string, tickers []string) map[string]models.SubmissionMeta {
	out := make(map[string]models.SubmissionMeta, len(tickers))
	for _, ticker := range tickers {
		path := filepath.Join(dir, ticker, "submissions.json")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var meta models.SubmissionMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			repaired, repErr := jsonrepair.RepairJSON(string(data))
			if repErr != nil || json.Unmarshal([]byte(repaired), &meta) != nil {
				log.WithFields(logrus.Fields{
					"ticker": ticker,
					"path":   path,
				}).WithError(err).Warn("skipping unreadable submissions file")
				continue
			}
		}
		out[ticker] = meta
	}
	return out
}
