package lyrics

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	citationRegex        = regexp.MustCompile(`\[\d+\]`)
	lineBreakTagRegex    = regexp.MustCompile(`(?i)<br\s*/?>`)
	excessiveBreaksRegex = regexp.MustCompile(`\n{4,}`)
)

// CleanForDisplay turns provider text into plain chat text: search
// citation markers like [1] are dropped, HTML markup and entities are
// flattened, and runs of blank lines are capped at two.
//
// It is a presentation helper; parsed results keep the provider text as is.
func CleanForDisplay(text string) string {
	text = citationRegex.ReplaceAllString(text, "")

	if strings.ContainsAny(text, "<&") {
		text = lineBreakTagRegex.ReplaceAllString(text, "\n")
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	text = strings.Join(lines, "\n")

	text = excessiveBreaksRegex.ReplaceAllString(text, "\n\n\n")
	return strings.TrimSpace(text)
}
