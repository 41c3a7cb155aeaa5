package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Run-dated filenames carry an 8-digit date token before the extension.
var dateTokenRe = regexp.MustCompile(`(\d{8})\.[A-Za-z]+$`)

// RunDate formats the conventional date token for output filenames.
func RunDate(t time.Time) string { return t.Format("20060102") }

// DateToken extracts the 8-digit date token from a run-dated filename,
// "" when the name carries none.
func DateToken(path string) string {
	sub := dateTokenRe.FindStringSubmatch(filepath.Base(path))
	if sub == nil {
		return ""
	}
	return sub[1]
}

// DatedPath builds "<dir>/<stem>_<token>.<ext>" for a run's output artifact.
func DatedPath(dir, stem, token, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stem, token, ext))
}

// Latest returns the file in dir matching "<stem>_<8-digit-date>.<ext>" with
// the greatest date token. Used by the CLI to locate the newest collaborator
// drop; core components take the resolved path, never the pattern.
func Latest(dir, stem, ext string) (string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf("%s_*.%s", stem, ext))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}
	best := ""
	bestToken := ""
	for _, m := range matches {
		if fi, err := os.Stat(m); err != nil || fi.IsDir() {
			continue
		}
		sub := dateTokenRe.FindStringSubmatch(filepath.Base(m))
		if sub == nil {
			continue
		}
		if sub[1] > bestToken {
			best, bestToken = m, sub[1]
		}
	}
	if best == "" {
		return "", fmt.Errorf("no %s_*.%s files in %s", stem, ext, dir)
	}
	return best, nil
}
