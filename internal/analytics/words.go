package analytics

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripMarkup turns a rich-text blob into plain text. Element boundaries
// become whitespace so "<p>a</p><p>b</p>" yields two words.
func StripMarkup(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if !strings.ContainsAny(content, "<&") {
		return strings.TrimSpace(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(tagRe.ReplaceAllString(content, " "))
	}

	var b strings.Builder
	collectText(doc.Selection, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			b.WriteString(c.Text())
			b.WriteByte(' ')
		case "#comment", "script", "style":
		default:
			collectText(c, b)
		}
	})
}

// WordCount prefers the precomputed plain text and falls back to the
// stripped content.
func WordCount(e Entry) int {
	text := e.PlainText
	if strings.TrimSpace(text) == "" {
		text = StripMarkup(e.Content)
	}
	return len(strings.Fields(text))
}

func TotalWords(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += WordCount(e)
	}
	return total
}
