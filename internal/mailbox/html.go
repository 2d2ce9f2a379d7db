package mailbox

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText renders an HTML email body as plain text. Script and style
// contents are dropped, block-ish structure becomes line breaks, and runs
// of blank lines are collapsed. Used by adapters when a message has no
// text/plain part.
func HTMLToText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	doc.Find("script, style, head").Remove()

	// goquery flattens text without separators; add breaks at block
	// boundaries first so words from adjacent elements don't run together.
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(
		func(_ int, s *goquery.Selection) {
			s.AfterHtml("\n")
		},
	)

	text := doc.Text()

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
