package address

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var spaceRe = regexp.MustCompile(`\s+`)

func cleanLine(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// HTMLToLines flattens an HTML document into cleaned, non-empty text lines,
// one per text node, skipping script and style content. This mirrors how the
// block extractor expects charter text: visually separate fragments become
// separate lines even when the markup carries no newlines.
func HTMLToLines(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			for _, part := range strings.Split(n.Data, "\n") {
				if line := cleanLine(part); line != "" {
					lines = append(lines, line)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return lines, nil
}
