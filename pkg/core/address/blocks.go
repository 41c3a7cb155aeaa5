package address

import (
	"regexp"
	"strings"
)

// Block is one candidate address assembled from consecutive qualifying lines.
type Block struct {
	Raw        string
	Type       string
	Confidence float64
}

// ExtractBlocks scans cleaned text lines and groups consecutive potential
// address lines into blocks. A non-matching line closes the current block.
// Block confidence is the strongest cue seen among its lines.
func ExtractBlocks(lines []string) []Block {
	var blocks []Block
	var current []string
	var best LineKind

	flush := func() {
		if len(current) == 0 {
			return
		}
		raw := strings.Join(current, ", ")
		blocks = append(blocks, Block{
			Raw:        raw,
			Type:       ClassifyBlock(raw),
			Confidence: best.Confidence(),
		})
		current = nil
		best = LineNone
	}

	for _, line := range lines {
		kind := ClassifyLine(line)
		if kind == LineNone {
			flush()
			continue
		}
		current = append(current, strings.TrimSpace(line))
		if kind > best {
			best = kind
		}
	}
	flush()

	return blocks
}

var dedupStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// DedupKey renders an address case- and punctuation-insensitively so that
// trivially reformatted repeats collapse.
func DedupKey(raw string) string {
	return dedupStripRe.ReplaceAllString(strings.ToLower(raw), "")
}

// Dedup keeps the first occurrence per dedup key, preserving order. The seen
// map is caller-owned so deduplication can carry across documents of the
// same company.
func Dedup(blocks []Block, seen map[string]bool) []Block {
	var out []Block
	for _, b := range blocks {
		key := DedupKey(b.Raw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}
